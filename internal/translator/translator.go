// Package translator orchestrates a full subtitle translation run: subtitle
// extraction for video inputs, parsing, language detection, batching,
// provider calls, and writing the translated file.
package translator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"sublate/internal/batch"
	"sublate/internal/config"
	"sublate/internal/control"
	"sublate/internal/detect"
	"sublate/internal/extract"
	"sublate/internal/language"
	"sublate/internal/logging"
	"sublate/internal/metadata"
	"sublate/internal/provider"
	"sublate/internal/subtitle"
)

// ErrNoEntries means the input parsed but contained no subtitle entries.
var ErrNoEntries = errors.New("subtitle file has no entries")

// Options carries the orchestration collaborators the config cannot express.
type Options struct {
	// Context, when set, enriches prompts with series/episode metadata.
	Context *metadata.Builder
	// Signals, when set, lets keyboard cancel/skip abort a run.
	Signals *control.Signals
	Logger  *logging.Logger
	// Progress draws a per-batch progress bar on stderr.
	Progress bool
}

// Service translates subtitle files with one configured provider.
type Service struct {
	cfg      config.Config
	prov     provider.Provider
	context  *metadata.Builder
	signals  *control.Signals
	log      *logging.Logger
	progress bool
}

func New(cfg config.Config, prov provider.Provider, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	return &Service{
		cfg:      cfg,
		prov:     prov,
		context:  opts.Context,
		signals:  opts.Signals,
		log:      log,
		progress: opts.Progress,
	}
}

// TranslateFile translates inputPath and writes the result. The output path
// is derived from the input and target language when outputPath is empty.
// It returns the written path. A pending skip flag is cleared at entry so a
// skip aimed at a previous file does not leak into this one.
func (s *Service) TranslateFile(
	ctx context.Context,
	inputPath, outputPath string,
) (string, error) {
	s.signals.ClearSkip()

	workPath := inputPath
	if subtitle.IsVideoFile(inputPath) {
		extracted, cleanup, err := s.extractFromVideo(inputPath)
		if err != nil {
			return "", err
		}
		defer cleanup()
		workPath = extracted
	}

	entries, err := subtitle.Parse(workPath)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoEntries, inputPath)
	}

	sourceName, sourceCode, err := s.resolveSource(ctx, entries)
	if err != nil {
		return "", err
	}
	targetName := language.Resolve(s.cfg.TargetLanguage)

	contextBlock := s.buildContext(ctx, inputPath, sourceCode)

	batches, err := batch.Split(entries, s.cfg.BatchSize)
	if err != nil {
		return "", err
	}
	s.log.Infow("translating",
		"file", filepath.Base(inputPath),
		"from", sourceName,
		"to", targetName,
		"entries", len(entries),
		"batches", len(batches),
		"provider", s.prov.Name(),
		"model", s.prov.Model(),
	)

	bar := s.newProgressBar(len(batches), filepath.Base(inputPath))
	translated := make([]subtitle.Entry, 0, len(entries))
	opts := provider.TranslateOptions{
		KeepNames: s.cfg.KeepNames,
		Context:   contextBlock,
	}
	for _, group := range batches {
		if err := s.signals.Err(); err != nil {
			return "", err
		}

		units := make([]provider.TranslationUnit, len(group))
		for i, e := range group {
			units[i] = provider.TranslationUnit{Index: e.Index, Text: e.Text}
		}

		results, err := s.prov.Translate(ctx, units, sourceName, targetName, opts)
		if err != nil {
			return "", err
		}

		translated = append(translated, s.pair(group, results)...)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	outPath := outputPath
	if outPath == "" {
		outPath = subtitle.OutputPath(
			subtitlePath(inputPath), s.cfg.TargetLanguage, s.cfg.OutputFormat,
		)
	}
	if err := subtitle.Write(translated, outPath); err != nil {
		return "", err
	}
	return outPath, nil
}

// pair matches returned units to the batch by position. A missing or empty
// unit keeps the original text so timing never drifts and nothing is lost.
func (s *Service) pair(
	group []subtitle.Entry,
	results []provider.TranslationUnit,
) []subtitle.Entry {
	out := make([]subtitle.Entry, len(group))
	for i, e := range group {
		text := e.Text
		if i < len(results) && strings.TrimSpace(results[i].Text) != "" {
			text = results[i].Text
		} else {
			s.log.Warnw("keeping original text for untranslated entry", "index", e.Index)
		}
		if s.cfg.Bilingual && text != e.Text {
			text = e.Text + "\n" + text
		}
		out[i] = subtitle.Entry{
			Index: e.Index,
			Start: e.Start,
			End:   e.End,
			Text:  text,
			Style: e.Style,
		}
	}
	return out
}

// resolveSource returns the prompt-facing source language name and, when
// known, its code. Auto-detection asks the provider with a text sample.
func (s *Service) resolveSource(
	ctx context.Context,
	entries []subtitle.Entry,
) (name, code string, err error) {
	if s.cfg.SourceLanguage != "" && s.cfg.SourceLanguage != "auto" {
		return language.Resolve(s.cfg.SourceLanguage), s.cfg.SourceLanguage, nil
	}

	result, err := detect.Detect(ctx, entries, s.prov, 0)
	if err != nil {
		return "", "", err
	}
	s.log.Infow("detected source language", "language", result.String())
	name = result.Language
	if name == "" {
		name = language.Resolve(result.Code)
	}
	return name, result.Code, nil
}

// buildContext is best effort: a metadata failure degrades to an empty
// context block rather than failing the run.
func (s *Service) buildContext(
	ctx context.Context,
	inputPath, sourceCode string,
) string {
	if s.context == nil {
		return ""
	}
	block, err := s.context.Build(ctx, inputPath, sourceCode, s.cfg.TargetLanguage)
	if err != nil {
		s.log.Warnw("metadata context unavailable", "error", err)
		return ""
	}
	if block != "" {
		s.log.Debugw("using metadata context", "context", block)
	}
	return block
}

// extractFromVideo demuxes the first subtitle stream to a temp SRT file.
// The cleanup removes it unless debug mode asks to keep intermediates.
func (s *Service) extractFromVideo(videoPath string) (string, func(), error) {
	tmp, err := os.CreateTemp("", "sublate-*.srt")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp subtitle file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	if err := extract.Subtitles(videoPath, tmpPath, extract.Options{}); err != nil {
		_ = os.Remove(tmpPath)
		return "", nil, err
	}
	s.log.Debugw("extracted embedded subtitles", "video", videoPath, "srt", tmpPath)

	cleanup := func() {
		if s.cfg.Debug {
			s.log.Debugw("keeping extracted subtitle file", "path", tmpPath)
			return
		}
		_ = os.Remove(tmpPath)
	}
	return tmpPath, cleanup, nil
}

func (s *Service) newProgressBar(batches int, name string) *progressbar.ProgressBar {
	if !s.progress {
		return nil
	}
	return progressbar.NewOptions(batches,
		progressbar.OptionSetDescription(name),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// subtitlePath maps a video input to the name its translated subtitle file
// should derive from, keeping subtitle inputs unchanged.
func subtitlePath(inputPath string) string {
	if !subtitle.IsVideoFile(inputPath) {
		return inputPath
	}
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + ".srt"
}
