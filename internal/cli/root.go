package cli

import (
	"github.com/spf13/cobra"

	"sublate/internal/logging"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sublate",
	Short: "AI-powered subtitle translator",
	Long: `Sublate translates subtitle files (and subtitles embedded in video
files) to another language using an LLM provider.

It supports SRT, VTT, and ASS formats, batches entries to keep requests
small, and can enrich prompts with series and episode context from TVDB.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file path (default ~/.config/sublate/config.toml)")
}
