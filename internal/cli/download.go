package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-queue/internal/download"
	"github.com/ytget/yt-queue/internal/model"
	"github.com/ytget/yt-queue/internal/platform"
)

var (
	ErrNothingToDownload = errors.New("no videos found for the given links")
	ErrDownloadsFailed   = errors.New("some downloads did not complete")
)

func newDownloadCommand(e *env) *cobra.Command {
	var (
		fromClipboard bool
		resolution    string
		dir           string
	)

	cmd := &cobra.Command{
		Use:   "download [links...]",
		Short: "Download videos without the desktop app",
		Long: `Resolve the given links (videos, playlists or search terms), queue every
resulting video and download them with the configured parallelism. The
command exits with an error if any video could not be downloaded.`,
		Example: `  yt-queue download https://youtu.be/dQw4w9WgXcQ
  yt-queue download --clipboard --resolution 1080p --dir ~/Videos`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, "\n")
			if fromClipboard {
				clip, err := clipboard.ReadAll()
				if err != nil {
					return fmt.Errorf("failed to read clipboard: %w", err)
				}
				text += "\n" + clip
			}

			links, err := platform.NormalizeLinks(text)
			if err != nil {
				return err
			}

			opts := download.Options{
				MaxParallel:       e.cfg.MaxParallel,
				DownloadDir:       e.cfg.DownloadDir,
				DefaultResolution: e.cfg.DefaultResolution,
			}
			if resolution != "" {
				if _, err := model.ParseResolution(resolution); err != nil {
					return err
				}
				opts.DefaultResolution = resolution
			}
			if dir != "" {
				opts.DownloadDir = dir
			}

			svc, err := newServices(cmd.Context(), e.cfg, opts, e.logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := svc.close(); err != nil {
					e.logger.Error("failed to close cache", "error", err)
				}
			}()

			return runHeadless(cmd.Context(), svc.controller, links, cmd.ErrOrStderr(), e.logger)
		},
	}

	cmd.Flags().BoolVar(&fromClipboard, "clipboard", false, "also read links from the clipboard")
	cmd.Flags().StringVar(&resolution, "resolution", "", "preferred resolution, e.g. 720p (default from config)")
	cmd.Flags().StringVar(&dir, "dir", "", "download directory (default from config)")
	return cmd
}

// runHeadless drives controller through fetch, enqueue-all and download,
// drawing a bar of finished items on out. controller must not be running yet.
func runHeadless(ctx context.Context, controller *download.Controller, links []string, out io.Writer, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	runErr := make(chan error, 1)
	defer func() {
		cancel()
		// Run returns after shutdown, or at once if another loop owns the controller
		if err := <-runErr; err != nil {
			logger.Error("queue controller stopped", "error", err)
		}
	}()

	// Only the newest snapshot matters
	updates := make(chan download.State, 1)
	controller.SetUpdateCallback(func(s download.State) {
		select {
		case <-updates:
		default:
		}
		updates <- s
	})
	fetched := make(chan download.FetchSummary, 1)
	controller.SetFetchDoneCallback(func(summary download.FetchSummary) {
		select {
		case fetched <- summary:
		default:
		}
	})

	go func() { runErr <- controller.Run(ctx) }()

	if err := controller.StartFetch(links); err != nil {
		return err
	}

	var summary download.FetchSummary
	select {
	case summary = <-fetched:
	case <-ctx.Done():
		return ctx.Err()
	}
	if summary.Failed > 0 {
		fmt.Fprintf(out, "%d of %d link(s) could not be resolved\n", summary.Failed, summary.Links)
	}

	state, err := controller.Snapshot()
	if err != nil {
		return err
	}
	if len(state.Items) == 0 {
		return ErrNothingToDownload
	}

	if err := controller.EnqueueAll(); err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(state.Items),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("downloading"),
		progressbar.OptionSetItsString("video"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	for !allFinished(state) {
		select {
		case state = <-updates:
		case <-ctx.Done():
			_ = bar.Exit()
			return ctx.Err()
		}
		bar.Describe(describeState(state))
		_ = bar.Set(finishedCount(state))
	}
	_ = bar.Finish()
	fmt.Fprintln(out)

	return reportFailures(state, out)
}

func allFinished(s download.State) bool {
	return !s.Fetching && finishedCount(s) == len(s.Items)
}

func finishedCount(s download.State) int {
	return s.Count(model.StatusCompleted) + s.Count(model.StatusCancelled)
}

// describeState summarizes the running downloads for the bar description
func describeState(s download.State) string {
	var speed float64
	for i := range s.Items {
		if s.Items[i].Status == model.StatusDownloading {
			speed += s.Items[i].Speed
		}
	}
	if s.Active == 0 {
		return "downloading"
	}
	return fmt.Sprintf("downloading %d at %s/s", s.Active, humanize.Bytes(uint64(speed)))
}

// reportFailures lists items that ended Cancelled
func reportFailures(s download.State, out io.Writer) error {
	failed := 0
	for i := range s.Items {
		item := &s.Items[i]
		switch item.Status {
		case model.StatusCompleted:
			fmt.Fprintf(out, "done    %s\n", item.OutputFilename)
		case model.StatusCancelled:
			failed++
			reason := item.LastError
			if reason == "" {
				reason = download.AbortedReason
			}
			fmt.Fprintf(out, "failed  %s: %s\n", item.GetDisplayTitle(), reason)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrDownloadsFailed, failed, len(s.Items))
	}
	return nil
}
