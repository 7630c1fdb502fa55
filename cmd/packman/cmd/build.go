package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quotepacks/packman"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the pack manifest",
	Long:  "Hash every eligible pack file in the assets directory and write the canonical packs.json manifest.",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().String("assets-dir", ".", "assets directory containing pack json files")
	buildCmd.Flags().String("output", "", "output manifest path (default: <assets-dir>/packs.json)")
	buildCmd.Flags().StringArray("exclude", nil, "file name to exclude (repeatable)")
	buildCmd.Flags().String("ext", packman.DefaultExt, "eligible pack file extension")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("assets-dir")
	output, _ := cmd.Flags().GetString("output")
	excludes, _ := cmd.Flags().GetStringArray("exclude")
	ext, _ := cmd.Flags().GetString("ext")

	if output == "" {
		output = filepath.Join(dir, packman.DefaultOutputName)
	}

	m, err := packman.Build(dir,
		packman.WithOutput(output),
		packman.WithExcludes(excludes...),
		packman.WithExtension(ext),
	)
	if err != nil {
		return err
	}

	n, err := m.WriteFile(output)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %d pack(s) to %s\n", n, output)
	return nil
}
