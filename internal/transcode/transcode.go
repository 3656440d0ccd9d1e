// Package transcode wraps the external ffmpeg process for converting audio
// between containers while normalizing channel count and sample rate.
package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// tempExt is appended to the output path while ffmpeg is writing so the
// conversion lands as an atomic rename. It also makes same-extension
// normalization (wav -> wav) safe.
const tempExt = ".tmp"

// Format is a supported conversion target.
type Format string

const (
	FormatWAV Format = "wav"
	FormatMP3 Format = "mp3"
)

// Options control one conversion.
type Options struct {
	Format     Format
	SampleRate int
	Channels   int
	Bitrate    string // mp3 only, e.g. "128k"

	// RemoveSource deletes the source file after a successful conversion,
	// never before. Ignored when source and output are the same path.
	RemoveSource bool
}

// Transcoder invokes ffmpeg with explicit encoding parameters.
type Transcoder struct {
	ffmpegPath string
}

// NewTranscoder creates a transcoder using the given ffmpeg binary. An empty
// path falls back to "ffmpeg" on PATH.
func NewTranscoder(ffmpegPath string) *Transcoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Transcoder{ffmpegPath: ffmpegPath}
}

// OutputPath derives the conversion target path: same basename, new
// extension.
func OutputPath(srcPath string, format Format) string {
	ext := filepath.Ext(srcPath)
	return strings.TrimSuffix(srcPath, ext) + "." + string(format)
}

// buildArgs constructs the ffmpeg argument list for one conversion.
func buildArgs(srcPath, tempPath string, opts Options) []string {
	args := []string{
		"-i", srcPath,
		"-ac", strconv.Itoa(opts.Channels),
		"-ar", strconv.Itoa(opts.SampleRate),
	}
	switch opts.Format {
	case FormatMP3:
		args = append(args, "-c:a", "libmp3lame")
		if opts.Bitrate != "" {
			args = append(args, "-b:a", opts.Bitrate)
		}
		args = append(args, "-f", "mp3")
	default:
		args = append(args, "-c:a", "pcm_s16le", "-f", "wav")
	}
	return append(args, "-y", tempPath)
}

// Convert runs ffmpeg and returns the output path. A non-zero exit status or
// spawn failure is returned as an error with the tail of ffmpeg's stderr;
// the caller decides whether that aborts its run.
func (t *Transcoder) Convert(ctx context.Context, srcPath string, opts Options) (string, error) {
	outputPath := OutputPath(srcPath, opts.Format)
	tempPath := outputPath + tempExt

	cmd := exec.CommandContext(ctx, t.ffmpegPath, buildArgs(srcPath, tempPath, opts)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("ffmpeg failed: %w: %s", err, stderrTail(&stderr))
	}

	if err := os.Rename(tempPath, outputPath); err != nil {
		return "", fmt.Errorf("failed to finalize converted audio: %w", err)
	}

	if opts.RemoveSource && srcPath != outputPath {
		if err := os.Remove(srcPath); err != nil {
			return "", fmt.Errorf("failed to remove source after conversion: %w", err)
		}
	}
	return outputPath, nil
}

// stderrTail keeps errors readable: ffmpeg prints its banner before the
// actual failure, only the end matters.
func stderrTail(buf *bytes.Buffer) string {
	const tail = 300
	s := strings.TrimSpace(buf.String())
	if len(s) > tail {
		s = "..." + s[len(s)-tail:]
	}
	return s
}
