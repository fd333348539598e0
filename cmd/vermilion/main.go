package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var stateDir string

func main() {
	root := &cobra.Command{
		Use:   "vermilion",
		Short: "Bidirectional identity mapping between git and mercurial object stores",
	}
	root.PersistentFlags().StringVar(&stateDir, "state-dir", ".vermilion", "bridge state directory")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newResolveCmd())
	root.AddCommand(newMapCmd())
	root.AddCommand(newUnmapCmd())
	root.AddCommand(newLsCmd())
	root.AddCommand(newFlushCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("vermilion 0.1.0-dev")
		},
	}
}
