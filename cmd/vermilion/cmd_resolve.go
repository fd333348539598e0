package main

import (
	"fmt"

	"github.com/vermilionhq/vermilion/pkg/gitobj"
	"github.com/vermilionhq/vermilion/pkg/hgobj"
	"github.com/vermilionhq/vermilion/pkg/metadata"
	"github.com/vermilionhq/vermilion/pkg/oid"
	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <namespace> <id>",
		Short: "Resolve an identifier through a mapping namespace",
		Long: `Resolve an identifier through a mapping namespace.

For hg2git and files-meta the identifier may be an abbreviation of 4 to
40 hex digits; git2hg requires a full identifier.`,
		Args: cobra.ExactArgs(2),
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

			var (
				result oid.Raw
				found  bool
			)
			switch h {
			case metadata.Git2Hg:
				id, err := oid.ParseTyped[gitobj.CommitKind](args[1])
				if err != nil {
					return err
				}
				note, ok, err := s.meta.Git2Hg().Get(id)
				if err != nil {
					return err
				}
				result, found = note.Raw(), ok
			case metadata.Hg2Git:
				a, err := oid.ParseAbbrev[hgobj.ChangesetKind](args[1])
				if err != nil {
					return err
				}
				result, found, err = metadata.GetAbbrev(s.meta.Hg2Git(), a)
				if err != nil {
					return err
				}
			case metadata.FilesMeta:
				a, err := oid.ParseAbbrev[hgobj.FileKind](args[1])
				if err != nil {
					return err
				}
				result, found, err = metadata.GetAbbrev(s.meta.FilesMeta(), a)
				if err != nil {
					return err
				}
			}
			if !found {
				return fmt.Errorf("%s: no mapping for %s", args[0], args[1])
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
}
