// Package extract pulls embedded subtitle streams out of video containers.
package extract

import (
	"fmt"
	"os"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Options control which stream is extracted.
type Options struct {
	StreamIndex int // subtitle stream index within the container, 0 = first
}

// Subtitles demuxes one subtitle stream from videoPath into outputPath,
// converting to SRT. The container must carry a text-based subtitle stream;
// bitmap subtitles (PGS, VobSub) cannot be converted this way.
func Subtitles(videoPath, outputPath string, opts Options) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	kwargs := ffmpeg.KwArgs{
		"map": fmt.Sprintf("0:s:%d", opts.StreamIndex),
		"c:s": "srt",
	}

	err := ffmpeg.Input(videoPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		Silent(true).
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg subtitle extraction failed: %w", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("ffmpeg produced no subtitle file: %w", err)
	}
	if info.Size() == 0 {
		_ = os.Remove(outputPath)
		return fmt.Errorf("video has no extractable subtitle stream: %s", videoPath)
	}
	return nil
}
