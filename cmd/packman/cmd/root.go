package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quotepacks/packman"
)

var rootCmd = &cobra.Command{
	Use:   "packman",
	Short: "Quote pack manifest toolkit",
	Long:  "Build, verify, archive, and publish content-addressable manifests for quote pack assets.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/packman/config.yaml)")
	rootCmd.PersistentFlags().String("archive-dir", "", "pack archive directory (default: ~/.local/share/packman)")

	viper.BindPFlag("archive_dir", rootCmd.PersistentFlags().Lookup("archive-dir"))
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PACKMAN")
	viper.AutomaticEnv()
	viper.SetDefault("archive_dir", defaultArchiveDir())
	viper.SetDefault("concurrency", 4)

	viper.ReadInConfig()
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "packman")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "packman")
	}
	return ".packman"
}

func defaultArchiveDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "packman")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "packman")
	}
	return ".packman"
}

func getArchiveDir() string {
	return viper.GetString("archive_dir")
}

func getConcurrency() int {
	return viper.GetInt("concurrency")
}

// getAuth returns explicit registry credentials from config, or nil to use
// the Docker keychain.
func getAuth() packman.Authenticator {
	if user := viper.GetString("registry_username"); user != "" {
		return packman.StaticAuth(user, viper.GetString("registry_password"))
	}
	return nil
}
