package cli

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/yt-queue/internal/config"
	"github.com/ytget/yt-queue/internal/download"
	"github.com/ytget/yt-queue/internal/ui"
)

const (
	AppID    = "com.ytget.yt-queue"
	AppTitle = "YT Queue"
)

// runGUI starts the desktop app and blocks until its window is closed
func runGUI(ctx context.Context, e *env, version string) error {
	e.logger.Info("starting desktop app", "version", version)

	fyneApp := app.NewWithID(AppID)
	fyneApp.Settings().SetTheme(ui.NewQueueTheme())

	// Preferences saved from the settings dialog win over the config file
	settings := config.NewSettings(fyneApp, e.cfg)
	opts := download.Options{
		MaxParallel:       settings.GetMaxParallelDownloads(),
		DownloadDir:       settings.GetDownloadDirectory(),
		DefaultResolution: settings.GetDefaultResolution(),
	}

	svc, err := newServices(ctx, e.cfg, opts, e.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.close(); err != nil {
			e.logger.Error("failed to close cache", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := svc.controller.Run(ctx); err != nil {
			e.logger.Error("queue controller stopped", "error", err)
		}
	}()
	watchConfig(e.viper, svc.controller, e.logger)

	window := fyneApp.NewWindow(fmt.Sprintf("%s v%s", AppTitle, version))
	window.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	ui.NewRootUI(window, fyneApp, svc.controller, settings, ui.NewLocalization(), svc.cache.Thumbnails, svc.cache, e.logger)

	// Interrupts close the window like the user would
	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	window.ShowAndRun()

	cancel()
	<-svc.controller.Stopped()
	e.logger.Info("desktop app stopped")
	return nil
}
