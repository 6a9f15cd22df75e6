package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/smazurov/lightnode/cmd"
	"github.com/smazurov/lightnode/internal/api"
	"github.com/smazurov/lightnode/internal/backend"
	"github.com/smazurov/lightnode/internal/config"
	"github.com/smazurov/lightnode/internal/engine"
	"github.com/smazurov/lightnode/internal/events"
	"github.com/smazurov/lightnode/internal/logging"
	"github.com/smazurov/lightnode/internal/router"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"lightnode.toml"`

	// Server settings
	Port string `help:"Address to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// LED settings
	LedBackend    string  `help:"LED backend (auto, blinkt, strip, console)" default:"auto" toml:"led.backend" env:"LED_BACKEND"`
	LedPixels     int     `help:"Number of pixels on the strip" default:"8" toml:"led.pixels" env:"LED_PIXELS"`
	LedBrightness int     `help:"Brightness percent, 1-100" default:"100" toml:"led.brightness" env:"LED_BRIGHTNESS"`
	LedSpiDev     string  `help:"SPI device path, empty for the first available" default:"" toml:"led.spi_dev" env:"LED_SPI_DEV"`
	LedFps        int     `help:"Render frame rate" default:"30" toml:"led.fps" env:"LED_FPS"`
	LedMaxRunSecs int     `help:"Safety ceiling for finite patterns in seconds, 0 disables" default:"600" toml:"led.max_run_secs" env:"LED_MAX_RUN_SECS"`

	// Auth settings
	AuthUsername string `help:"Basic auth username, empty disables auth" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingEngine  string `help:"Engine logging level" default:"info" toml:"logging.engine" env:"LOGGING_ENGINE"`
	LoggingRouter  string `help:"Router logging level" default:"info" toml:"logging.router" env:"LOGGING_ROUTER"`
	LoggingBackend string `help:"Backend logging level" default:"info" toml:"logging.backend" env:"LOGGING_BACKEND"`
	LoggingAPI     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP    string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
}

func main() {
	// The callback only runs inside cli.Run(), after cli is assigned, so
	// closing over it here is safe. Passing the root command lets the
	// loader see which flags were set explicitly; those keep precedence
	// over file and environment values.
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"engine":  opts.LoggingEngine,
				"router":  opts.LoggingRouter,
				"backend": opts.LoggingBackend,
				"api":     opts.LoggingAPI,
				"http":    opts.LoggingHTTP,
			},
		})

		logger := logging.GetLogger("main")
		eventBus := events.New()

		// Stream new log entries to SSE clients through the bus.
		logging.SetEntryCallback(func(entry logging.Entry) {
			eventBus.Publish(events.LogEntryEvent{
				Timestamp: entry.Timestamp.Format(time.RFC3339Nano),
				Level:     entry.Level,
				Module:    entry.Module,
				Message:   entry.Message,
				Attrs:     entry.Attrs,
			})
		})

		out, err := backend.New(opts.LedBackend, backend.Config{
			PixelCount: opts.LedPixels,
			Brightness: float64(opts.LedBrightness) / 100,
			SPIDev:     opts.LedSpiDev,
		}, logging.GetLogger("backend"))
		if err != nil {
			logger.Error("Failed to open LED backend", "backend", opts.LedBackend, "error", err)
			os.Exit(1)
		}

		metrics := engine.NewMetrics()
		eng := engine.New(engine.Options{
			Backend: out,
			Bus:     eventBus,
			Logger:  logging.GetLogger("engine"),
			Metrics: metrics,
			FPS:     opts.LedFps,
			MaxRun:  time.Duration(opts.LedMaxRunSecs) * time.Second,
		})

		msgRouter := router.New(eng, eventBus, logging.GetLogger("router"))

		server := api.NewServer(&api.Options{
			AuthUsername:   opts.AuthUsername,
			AuthPassword:   opts.AuthPassword,
			Router:         msgRouter,
			Engine:         eng,
			Bus:            eventBus,
			MetricsHandler: metrics.Handler(),
		})

		// Reload log levels when the config file changes.
		var watcher *config.Watcher[logging.Config]
		if opts.Config != "" {
			if _, statErr := os.Stat(opts.Config); statErr == nil {
				watcher = config.NewWatcher(opts.Config, func(path string) (logging.Config, error) {
					return config.LoadLoggingConfig(path), nil
				}, logging.GetLogger("config"))
				watcher.OnReload(func(cfg logging.Config) {
					for module, level := range cfg.Modules {
						logging.SetModuleLevel(module, level)
					}
				})
			}
		}

		hooks.OnStart(func() {
			msgRouter.Start()

			if watcher != nil {
				if watchErr := watcher.Start(); watchErr != nil {
					logger.Warn("Failed to start config watcher", "error", watchErr)
				}
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}
			if watcher != nil {
				if stopErr := watcher.Stop(); stopErr != nil {
					logger.Warn("Error stopping config watcher", "error", stopErr)
				}
			}
			msgRouter.Stop()
			eng.Stop()
			if closeErr := out.Close(); closeErr != nil {
				logger.Warn("Error closing LED backend", "error", closeErr)
			}
		})
	})

	cli.Root().AddCommand(cmd.CreateDemoCmd())
	cli.Root().AddCommand(cmd.CreateUpdateCmd())

	cli.Run()
}
