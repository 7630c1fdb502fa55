package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quotepacks/packman"
)

var pushCmd = &cobra.Command{
	Use:   "push <image-ref>",
	Short: "Publish the pack bundle to an OCI registry",
	Long:  "Push the manifest and every pack it names to an OCI registry as a pack bundle.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPush,
}

func init() {
	pushCmd.Flags().String("assets-dir", ".", "assets directory containing pack json files")
	pushCmd.Flags().String("manifest", "", "manifest path (default: <assets-dir>/packs.json)")

	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	imageRef := args[0]
	dir, _ := cmd.Flags().GetString("assets-dir")
	manifest, _ := cmd.Flags().GetString("manifest")
	if manifest == "" {
		manifest = filepath.Join(dir, packman.DefaultOutputName)
	}

	m, err := packman.LoadManifest(manifest)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Pushing %s...\n", imageRef)

	if err := packman.PublishBundle(context.Background(), imageRef, dir, m, getAuth(), getConcurrency()); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	fmt.Printf("Pushed %d pack(s) to %s\n", len(m.Packs), imageRef)
	return nil
}
