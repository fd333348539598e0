package main

import (
	"fmt"

	"github.com/vermilionhq/vermilion/pkg/metadata"
	"github.com/spf13/cobra"
)

func newFlushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Snapshot every namespace and advance its ref",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(stateDir)
			if err != nil {
				return err
			}
			defer s.Close()

			results, err := s.meta.Persist()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, h := range []metadata.Handle{metadata.Git2Hg, metadata.Hg2Git, metadata.FilesMeta} {
				root := results[h]
				if root.IsNull() {
					fmt.Fprintf(out, "%-10s (no metadata)\n", h)
					continue
				}
				fmt.Fprintf(out, "%-10s %s\n", h, root)
			}
			return nil
		},
	}
}
