package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/lrstanley/go-ytdlp"
	"github.com/spf13/viper"

	"github.com/ytget/yt-queue/internal/cache"
	"github.com/ytget/yt-queue/internal/config"
	"github.com/ytget/yt-queue/internal/download"
	"github.com/ytget/yt-queue/internal/ffmpeg"
	"github.com/ytget/yt-queue/internal/platform"
)

// services holds everything a running queue needs
type services struct {
	cfg        *config.Config
	logger     *slog.Logger
	cache      *cache.Store
	controller *download.Controller
}

// newServices builds the queue stack. opts carries the download folder,
// parallelism and default resolution; the merge tool path is resolved here.
func newServices(ctx context.Context, cfg *config.Config, opts download.Options, logger *slog.Logger) (*services, error) {
	if cfg.InstallYTDLP {
		resolved, err := ytdlp.Install(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to install yt-dlp: %w", err)
		}
		logger.Info("yt-dlp ready", "path", resolved.Executable, "version", resolved.Version)
	}

	ffmpegPath, err := ffmpeg.Locate(cfg.FFmpegPath)
	if err != nil {
		// Downloads report the missing tool individually
		logger.Warn("merge tool not found, downloads will fail", "error", err)
	} else if version, err := ffmpeg.Version(ctx, ffmpegPath); err == nil {
		logger.Info("merge tool found", "path", ffmpegPath, "version", version)
	}
	opts.FFmpegPath = ffmpegPath

	if err := platform.CreateDirectoryIfNotExists(opts.DownloadDir); err != nil {
		logger.Warn("failed to create download directory", "dir", opts.DownloadDir, "error", err)
	}

	store, err := cache.Open(cfg.CacheDir, cfg.CacheTTL, logger)
	if err != nil {
		return nil, err
	}

	playlists := platform.NewPlaylistExpander(cfg.PlaylistLimit)
	info := platform.NewInfoService(store.Info, playlists, logger)
	info.SetTimeout(cfg.FetchTimeout)

	runner := download.NewYTDLPRunner(cfg.ProgressInterval, logger)

	return &services{
		cfg:        cfg,
		logger:     logger,
		cache:      store,
		controller: download.NewController(opts, runner, info, logger),
	}, nil
}

// close releases the caches, clearing them first when configured to
func (s *services) close() error {
	var errs []error
	if s.cfg.ClearCacheOnExit {
		s.logger.Info("clearing cache on exit", "dir", s.cfg.CacheDir)
		errs = append(errs, s.cache.Clear())
	}
	errs = append(errs, s.cache.Close())
	return errors.Join(errs...)
}

// watchConfig applies max_parallel changes of the config file to the live queue
func watchConfig(v *viper.Viper, queue download.Queue, logger *slog.Logger) {
	if v == nil || v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		logger.Info("config file changed", "name", e.Name, "op", e.Op.String())
		cfg, err := config.Decode(v)
		if err != nil {
			logger.Error("failed to reload config", "error", err)
			return
		}
		if err := queue.SetMaxParallel(cfg.MaxParallel); err != nil {
			logger.Warn("failed to apply max_parallel", "error", err)
		}
	})
	v.WatchConfig()
}
