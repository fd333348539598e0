package main

import (
	"fmt"

	"github.com/vermilionhq/vermilion/pkg/gitobj"
	"github.com/vermilionhq/vermilion/pkg/metadata"
	"github.com/vermilionhq/vermilion/pkg/oid"
	"github.com/spf13/cobra"
)

func newMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "map <namespace> <key> <value>",
		Short: "Record a mapping and persist the namespace",
		Long: `Record a mapping and persist the namespace.

A key that is already mapped keeps its existing value.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := namespaceHandle(args[0])
			if err != nil {
				return err
			}
			key, err := oid.Parse(args[1])
			if err != nil {
				return err
			}
			value, err := oid.Parse(args[2])
			if err != nil {
				return err
			}

			s, err := openSession(stateDir)
			if err != nil {
				return err
			}
			defer s.Close()

			switch h {
			case metadata.Git2Hg:
				err = s.meta.Git2Hg().Add(
					oid.Unchecked[gitobj.CommitKind](key),
					oid.Unchecked[gitobj.BlobKind](value),
				)
			case metadata.Hg2Git:
				err = s.meta.Hg2Git().Add(key, value)
			case metadata.FilesMeta:
				err = s.meta.FilesMeta().Add(key, value)
			}
			if err != nil {
				return err
			}

			results, err := s.meta.Persist()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s root %s)\n", key, value, h, results[h])
			return nil
		},
	}
}
