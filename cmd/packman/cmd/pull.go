package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quotepacks/packman"
)

var pullCmd = &cobra.Command{
	Use:   "pull <image-ref>",
	Short: "Fetch a pack bundle from an OCI registry",
	Long:  "Download a pack bundle, verify every pack against its bundled manifest, and write the set to a directory.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPull,
}

func init() {
	pullCmd.Flags().String("out", ".", "directory to write the pack set into")

	rootCmd.AddCommand(pullCmd)
}

func runPull(cmd *cobra.Command, args []string) error {
	imageRef := args[0]
	out, _ := cmd.Flags().GetString("out")

	fmt.Fprintf(os.Stderr, "Pulling %s...\n", imageRef)

	m, err := packman.FetchBundle(context.Background(), imageRef, out, getAuth(), getConcurrency())
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}

	fmt.Printf("Fetched %d pack(s) to %s\n", len(m.Packs), out)
	return nil
}
