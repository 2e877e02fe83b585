package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sublate/internal/config"
	"sublate/internal/control"
	"sublate/internal/metadata"
	"sublate/internal/provider"
	"sublate/internal/subtitle"
	"sublate/internal/translator"
)

var translateCmd = &cobra.Command{
	Use:   "translate [files or directories...]",
	Short: "Translate subtitle files to another language using AI",
	Long: `Translate subtitle files to another language using an LLM provider.

Supports SRT, VTT, and ASS files directly. Video files (mkv, mp4, ...)
have their first embedded subtitle stream extracted first. Directories
are scanned for subtitle and video files.

While a run is in progress, press 's' to skip the current file and 'q'
to cancel the whole run.

Examples:
  sublate translate episode.srt --to es
  sublate translate season1/ --to ja --provider anthropic --bilingual
  sublate translate movie.mkv --to de --from en -o movie.de.srt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("to", "t", "", "Target language (required unless set in config)")
	translateCmd.Flags().
		String("from", "", "Source language (default: auto-detect)")
	translateCmd.Flags().
		String("provider", "", "Translation provider (openai, vllm, ollama, anthropic, gemini)")
	translateCmd.Flags().
		String("model", "", "Model name (provider default when empty)")
	translateCmd.Flags().
		String("base-url", "", "Override the provider API endpoint")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set SUBLATE_API_KEY / the provider's env var)")
	translateCmd.Flags().
		StringP("output", "o", "", "Output file path (single input only)")
	translateCmd.Flags().
		String("output-format", "", "Output format: srt, vtt, or ass (default: input format)")
	translateCmd.Flags().
		Int("batch-size", 0, "Subtitle entries per API request")
	translateCmd.Flags().
		Float64("temperature", 0, "Sampling temperature")
	translateCmd.Flags().
		Int("timeout", 0, "Per-request timeout in seconds")
	translateCmd.Flags().
		IntP("retries", "r", 0, "Retry budget for malformed responses")
	translateCmd.Flags().
		Bool("bilingual", false, "Keep the original line above the translation")
	translateCmd.Flags().
		Bool("keep-names", false, "Ask the model to leave proper names untranslated")
	translateCmd.Flags().
		String("tvdb-api-key", "", "TVDB v4 API key for series/episode context")
	translateCmd.Flags().
		Bool("recursive", false, "Descend into subdirectories")
	translateCmd.Flags().
		Bool("debug", false, "Keep intermediate files and log prompts")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	recursive, _ := cmd.Flags().GetBool("recursive")

	files, err := collectInputs(args, recursive)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no subtitle or video files found in %s", strings.Join(args, ", "))
	}
	if outputPath != "" && len(files) > 1 {
		return fmt.Errorf("--output only works with a single input file, got %d", len(files))
	}

	apiKey := resolveAPIKey(cfg)

	signals := control.NewSignals()
	stopListener := startKeyListener(signals, logger)
	defer stopListener()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	prov, err := provider.New(ctx, provider.Settings{
		Name:        cfg.Provider,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		APIKey:      apiKey,
		Temperature: cfg.Temperature,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		Retries:     cfg.Retries,
		Signals:     signals,
	}, logger)
	if err != nil {
		return err
	}

	var contextBuilder *metadata.Builder
	if cfg.TVDBAPIKey != "" {
		client := metadata.NewClient(cfg.TVDBAPIKey, nil)
		contextBuilder = metadata.NewBuilder(
			client, metadata.NewGoogleTranslator(nil), logger,
		)
	}

	svc := translator.New(*cfg, prov, translator.Options{
		Context:  contextBuilder,
		Signals:  signals,
		Logger:   logger,
		Progress: interactiveTerminal(),
	})

	translated, failed := 0, 0
	for _, file := range files {
		out, err := svc.TranslateFile(ctx, file, outputPath)
		switch {
		case errors.Is(err, control.ErrCancelled):
			logger.Infow("Run cancelled", "translated", translated)
			return nil
		case errors.Is(err, control.ErrSkipped):
			logger.Infow("Skipped file", "file", file)
			continue
		case err != nil:
			failed++
			logger.Warnw("Translation failed", "file", file, "error", err)
			continue
		}
		translated++
		logger.Infow("Wrote translated subtitles", "file", out)
	}

	if failed > 0 && translated == 0 {
		return fmt.Errorf("all %d files failed to translate", failed)
	}
	if len(files) > 1 {
		logger.Infow("Done", "translated", translated, "failed", failed)
	}
	return nil
}

// applyFlags copies explicitly set flags onto the config. Unset flags leave
// the file and environment values alone.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("to") {
		cfg.TargetLanguage, _ = flags.GetString("to")
	}
	if flags.Changed("from") {
		cfg.SourceLanguage, _ = flags.GetString("from")
	}
	if flags.Changed("provider") {
		cfg.Provider, _ = flags.GetString("provider")
	}
	if flags.Changed("model") {
		cfg.Model, _ = flags.GetString("model")
	}
	if flags.Changed("base-url") {
		cfg.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("api-key") {
		cfg.APIKey, _ = flags.GetString("api-key")
	}
	if flags.Changed("output-format") {
		cfg.OutputFormat, _ = flags.GetString("output-format")
	}
	if flags.Changed("batch-size") {
		cfg.BatchSize, _ = flags.GetInt("batch-size")
	}
	if flags.Changed("temperature") {
		cfg.Temperature, _ = flags.GetFloat64("temperature")
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds, _ = flags.GetInt("timeout")
	}
	if flags.Changed("retries") {
		cfg.Retries, _ = flags.GetInt("retries")
	}
	if flags.Changed("bilingual") {
		cfg.Bilingual, _ = flags.GetBool("bilingual")
	}
	if flags.Changed("keep-names") {
		cfg.KeepNames, _ = flags.GetBool("keep-names")
	}
	if flags.Changed("tvdb-api-key") {
		cfg.TVDBAPIKey, _ = flags.GetString("tvdb-api-key")
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
}

// resolveAPIKey falls back to the conventional provider environment
// variables when neither flag, config, nor SUBLATE_API_KEY is set.
func resolveAPIKey(cfg *config.Config) string {
	if cfg.APIKey != "" {
		return cfg.APIKey
	}
	switch cfg.Provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	}
	return ""
}

// collectInputs expands directories into the translatable files they hold
// and validates explicit file arguments. The result is sorted and deduped.
func collectInputs(args []string, recursive bool) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input not found: %s", arg)
		}
		if !info.IsDir() {
			if !subtitle.IsSubtitleFile(arg) && !subtitle.IsVideoFile(arg) {
				return nil, fmt.Errorf(
					"unsupported file %q: use a subtitle (.srt, .vtt, .ass) or video file",
					arg,
				)
			}
			add(arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && !recursive {
					return fs.SkipDir
				}
				return nil
			}
			if subtitle.IsSubtitleFile(path) || subtitle.IsVideoFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", arg, err)
		}
	}

	sort.Strings(files)
	return files, nil
}
