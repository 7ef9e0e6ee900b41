package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	// Version is set via ldflags at build time.
	Version = "dev"
	// GitCommit is set via ldflags at build time.
	GitCommit = "unknown"
	// BuildDate is set via ldflags at build time.
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "uiauto",
	Short: "Windows UI automation and image-matching runtime",
	Long: `uiauto inspects and drives Windows UIs through three backends
(Microsoft UI Automation, Java Access Bridge, and computer-vision template
matching) unified behind one element tree, query engine, and image-matching
engine.`,
	Version: Version,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Execute initializes and runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(
		fmt.Sprintf("uiauto version %s\nGit commit: %s\nBuild date: %s\n", Version, GitCommit, BuildDate),
	)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
}
