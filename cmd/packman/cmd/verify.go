package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quotepacks/packman"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify packs against the manifest",
	Long:  "Re-hash every pack named in the manifest and fail on any mismatch or unreadable file.",
	Args:  cobra.NoArgs,
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().String("assets-dir", ".", "assets directory containing pack json files")
	verifyCmd.Flags().String("manifest", "", "manifest path (default: <assets-dir>/packs.json)")
	verifyCmd.Flags().Int("concurrency", 0, "parallel hash checks (default: from config)")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("assets-dir")
	manifest, _ := cmd.Flags().GetString("manifest")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	if manifest == "" {
		manifest = filepath.Join(dir, packman.DefaultOutputName)
	}
	if concurrency < 1 {
		concurrency = getConcurrency()
	}

	m, err := packman.LoadManifest(manifest)
	if err != nil {
		return err
	}

	if err := packman.Verify(context.Background(), dir, m, concurrency); err != nil {
		return err
	}

	fmt.Printf("Verified %d pack(s) in %s\n", len(m.Packs), dir)
	return nil
}
