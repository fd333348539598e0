package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vermilionhq/vermilion/pkg/config"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty bridge state directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(stateDir)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
			if err := config.Save(abs, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized bridge state in %s\n", abs+string(filepath.Separator))
			return nil
		},
	}
}
