package main

import (
	"fmt"

	"github.com/vermilionhq/vermilion/pkg/gitobj"
	"github.com/vermilionhq/vermilion/pkg/metadata"
	"github.com/vermilionhq/vermilion/pkg/oid"
	"github.com/spf13/cobra"
)

func newUnmapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unmap <namespace> <key>",
		Short: "Remove a mapping and persist the namespace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := namespaceHandle(args[0])
			if err != nil {
				return err
			}
			key, err := oid.Parse(args[1])
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
				err = s.meta.Git2Hg().Remove(oid.Unchecked[gitobj.CommitKind](key))
			case metadata.Hg2Git:
				err = s.meta.Hg2Git().Remove(key)
			case metadata.FilesMeta:
				err = s.meta.FilesMeta().Remove(key)
			}
			if err != nil {
				return err
			}

			if _, err := s.meta.Persist(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "unmapped %s from %s\n", key, h)
			return nil
		},
	}
}
