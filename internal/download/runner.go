package download

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// DefaultProgressInterval is how often yt-dlp progress is sampled
const DefaultProgressInterval = 500 * time.Millisecond

// YTDLPRunner downloads and merges videos with the yt-dlp binary
type YTDLPRunner struct {
	progressInterval time.Duration
	logger           *slog.Logger
}

// NewYTDLPRunner creates a runner. A non-positive interval uses the default.
func NewYTDLPRunner(progressInterval time.Duration, logger *slog.Logger) *YTDLPRunner {
	if progressInterval <= 0 {
		progressInterval = DefaultProgressInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &YTDLPRunner{
		progressInterval: progressInterval,
		logger:           logger,
	}
}

// Download implements Runner
func (r *YTDLPRunner) Download(ctx context.Context, req Request, report func(Progress) bool) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	output := filepath.Join(req.OutputDir, req.Filename)

	dl := ytdlp.New().
		Format(req.FormatSelector()).
		Output(output).
		NoPlaylist().
		MergeOutputFormat(MergeOutputFormat).
		FFmpegLocation(req.FFmpegPath)

	dl.ProgressFunc(r.progressInterval, func(update ytdlp.ProgressUpdate) {
		if !report(progressFromUpdate(&update)) {
			cancel()
		}
	})

	if _, err := dl.Run(ctx, req.URL); err != nil {
		if ctx.Err() != nil {
			return "", ErrAborted
		}
		return "", fmt.Errorf("yt-dlp failed for %s: %w", req.URL, err)
	}
	return output, nil
}

// progressFromUpdate converts a yt-dlp progress update
func progressFromUpdate(update *ytdlp.ProgressUpdate) Progress {
	if update.Status == ytdlp.ProgressStatusFinished {
		return Progress{Percent: 100}
	}

	p := Progress{
		Percent: ComputePercent(int64(update.DownloadedBytes), int64(update.TotalBytes)),
	}

	if !update.Started.IsZero() {
		elapsed := time.Since(update.Started)
		if elapsed.Seconds() > 0 {
			p.Speed = float64(update.DownloadedBytes) / elapsed.Seconds()
		}
	}

	if eta := update.ETA(); eta > 0 {
		p.ETA = eta
	}
	return p
}
