// Package main provides the entry point for the battle map editor.
package main

import (
	"os"

	"battlemap/internal/app"
	"battlemap/internal/config"
	"battlemap/internal/imageload"
	"battlemap/internal/logging"
	"battlemap/internal/mapframe"
	"battlemap/internal/version"
	"battlemap/pkg/colorutil"
	"battlemap/ui/mainwindow"
	"battlemap/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

const appID = "io.github.battlemap"

func main() {
	appPrefs := prefs.Load()
	configDir := pflag.StringP("config", "c", appPrefs.Dir(), "directory containing "+config.FileName)
	pflag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		boot := logging.Setup(os.Stderr, "info")
		boot.Fatal().Err(err).Msg("load config")
	}

	logger := logging.Setup(os.Stderr, cfg.LogLevel)
	logger.Info().
		Str("version", version.Version).
		Str("commit", version.GitCommit).
		Str("config", config.ConfigFileUsed()).
		Msgf("Starting %s", version.Name)

	loader := imageload.NewLoader(imageload.NewLibrary(), 8, logger)
	frame := mapframe.New(frameOptions(cfg), loader, logger)

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.BattleMapTheme{})

	win := mainwindow.New(fyneApp, frame, appPrefs, logger)

	if cfg.HotReload {
		setupHotReload(win, logger)
	}

	win.ShowAndRun()
}

func frameOptions(cfg *config.Config) mapframe.Options {
	opts := mapframe.DefaultOptions()
	opts.Dimensions = cfg.Dimensions()
	opts.System.MMPerInch = cfg.Render.MMPerInch
	opts.FormDefaults = cfg.FormDefaults()
	opts.LabelOffset = cfg.Label.Offset
	opts.LabelFontSize = cfg.Label.FontSize
	opts.MeasureColor = colorutil.MustParseHex(cfg.Measure.Color)
	opts.MeasureStrokeWidth = cfg.Measure.StrokeWidth
	opts.StrictInvariants = cfg.StrictInvariants
	return opts
}

// setupHotReload offers a restart when the binary is rebuilt.
func setupHotReload(win *mainwindow.MainWindow, logger zerolog.Logger) {
	reloader, err := app.NewHotReloader(logger)
	if err != nil {
		logger.Warn().Err(err).Msg("hot reload disabled")
		return
	}

	reloader.OnNewBinary(func() {
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					return
				}
				win.SavePreferences()
				logger.Info().Msg("restarting")
				if err := reloader.Restart(); err != nil {
					logger.Error().Err(err).Msg("restart failed")
				}
			}, win.Window)
	})

	if err := reloader.Start(); err != nil {
		logger.Warn().Err(err).Msg("hot reload disabled")
		return
	}
	win.AddCloseHook(reloader.Stop)
}
