package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quotepacks/packman"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <ref>",
	Short: "Restore an archived pack set",
	Long:  "Materialize the pack set named by an archive ref, verifying every pack against its recorded digest.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func init() {
	restoreCmd.Flags().String("out", ".", "directory to restore the pack set into")

	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) (err error) {
	ref := args[0]
	out, _ := cmd.Flags().GetString("out")

	a, err := packman.OpenArchive(getArchiveDir())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	m, err := a.Restore(ref, out)
	if err != nil {
		return err
	}

	fmt.Printf("Restored %d pack(s) to %s\n", len(m.Packs), out)
	return nil
}
