package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List stored files that have no metadata record",
	Long: `An upload whose metadata insert fails leaves its file in storage.
orphans compares the storage listing with the recorded stored filenames
and prints every stored file nothing refers to. Nothing is deleted.`,
	Args: cobra.NoArgs,
	RunE: runOrphans,
}

func runOrphans(cmd *cobra.Command, args []string) error {
	rt, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	orphans, err := rt.service.FindOrphans(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, name := range orphans {
		fmt.Fprintln(out, name)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d orphaned file(s)\n", len(orphans))
	return nil
}
