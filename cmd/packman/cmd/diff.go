package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quotepacks/packman"
)

var diffCmd = &cobra.Command{
	Use:   "diff <old-manifest> <new-manifest>",
	Short: "Compare two manifests",
	Long:  "List packs added, removed, or changed between two manifest documents.",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	prev, err := packman.LoadManifest(args[0])
	if err != nil {
		return err
	}
	next, err := packman.LoadManifest(args[1])
	if err != nil {
		return err
	}

	added, removed, changed := packman.Diff(prev, next)
	for _, name := range added {
		fmt.Printf("+ %s\n", name)
	}
	for _, name := range removed {
		fmt.Printf("- %s\n", name)
	}
	for _, name := range changed {
		fmt.Printf("~ %s\n", name)
	}

	if len(added)+len(removed)+len(changed) == 0 {
		fmt.Println("(no changes)")
	}
	return nil
}
