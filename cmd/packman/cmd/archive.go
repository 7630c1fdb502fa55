package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quotepacks/packman"
)

var archiveCmd = &cobra.Command{
	Use:   "archive <ref>",
	Short: "Archive the pack set under a named ref",
	Long:  "Store every pack named in the manifest, plus the manifest itself, in the local content-addressed archive.",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchive,
}

func init() {
	archiveCmd.Flags().String("assets-dir", ".", "assets directory containing pack json files")
	archiveCmd.Flags().String("manifest", "", "manifest path (default: <assets-dir>/packs.json)")

	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) (err error) {
	ref := args[0]
	dir, _ := cmd.Flags().GetString("assets-dir")
	manifest, _ := cmd.Flags().GetString("manifest")
	if manifest == "" {
		manifest = filepath.Join(dir, packman.DefaultOutputName)
	}

	m, err := packman.LoadManifest(manifest)
	if err != nil {
		return err
	}

	a, err := packman.OpenArchive(getArchiveDir())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := a.Save(dir, m, ref); err != nil {
		return err
	}

	fmt.Printf("Archived %d pack(s) as %s\n", len(m.Packs), ref)
	return nil
}
