package main

import (
	"fmt"

	"github.com/vermilionhq/vermilion/pkg/gitobj"
	"github.com/vermilionhq/vermilion/pkg/metadata"
	"github.com/vermilionhq/vermilion/pkg/oid"
	"github.com/spf13/cobra"
)

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <namespace>",
		Short: "List every mapping in a namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := namespaceHandle(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(stateDir)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			switch h {
			case metadata.Git2Hg:
				err = s.meta.Git2Hg().ForEach(func(id gitobj.CommitId, note gitobj.BlobId) {
					fmt.Fprintf(out, "%s %s\n", id, note)
				})
			case metadata.Hg2Git:
				err = s.meta.Hg2Git().ForEach(func(id, note oid.Raw) {
					fmt.Fprintf(out, "%s %s\n", id, note)
				})
			case metadata.FilesMeta:
				err = s.meta.FilesMeta().ForEach(func(id, note oid.Raw) {
					fmt.Fprintf(out, "%s %s\n", id, note)
				})
			}
			return err
		},
	}
}
