// Package cmd holds the auxiliary CLI subcommands.
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smazurov/lightnode/internal/backend"
	"github.com/smazurov/lightnode/internal/engine"
	"github.com/smazurov/lightnode/internal/logging"
	"github.com/smazurov/lightnode/internal/pattern"
	"github.com/smazurov/lightnode/internal/router"
)

// CreateDemoCmd returns the demo command, which cycles every pattern
// kind against a backend so hardware and colors can be checked by eye.
func CreateDemoCmd() *cobra.Command {
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Cycle through all patterns for a visual check",
		Long:  "Runs each pattern kind in sequence: pulse, rainbow, flash, then the status colors. Uses the console backend unless hardware is requested.",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, _ := cmd.Flags().GetString("backend")
			pixels, _ := cmd.Flags().GetInt("pixels")
			brightness, _ := cmd.Flags().GetFloat64("brightness")

			logger := logging.GetLogger("demo")
			cfg := backend.Config{PixelCount: pixels, Brightness: brightness}

			var (
				out backend.Backend
				err error
			)
			if kind == backend.KindAuto {
				out = backend.Probe(cfg, logger)
			} else {
				out, err = backend.New(kind, cfg, logger)
				if err != nil {
					return fmt.Errorf("open backend: %w", err)
				}
			}
			defer out.Close()

			eng := engine.New(engine.Options{
				Backend: out,
				Logger:  logger,
			})
			defer eng.Stop()

			steps := []struct {
				name string
				spec pattern.Spec
				hold time.Duration
			}{
				{"pulse", pattern.Pulse(pattern.Green, 2*time.Second), 2500 * time.Millisecond},
				{"rainbow", pattern.Rainbow(3*time.Second, pattern.DefaultRainbowSpeed), 3500 * time.Millisecond},
				{"flash", pattern.Flash(pattern.Blue, 3, 200*time.Millisecond), 1500 * time.Millisecond},
			}
			for _, step := range steps {
				fmt.Printf("\n%s\n", step.name)
				eng.Submit(step.spec)
				time.Sleep(step.hold)
			}

			for _, status := range []string{"ok", "warning", "error", "info", "active"} {
				fmt.Printf("\nstatus: %s\n", status)
				eng.Submit(pattern.Status(router.StatusColor(status)))
				time.Sleep(1500 * time.Millisecond)
			}

			eng.Stop()
			fmt.Println("\ndemo complete")
			return nil
		},
	}

	demoCmd.Flags().String("backend", backend.KindAuto, "Backend to use (auto, blinkt, strip, console)")
	demoCmd.Flags().Int("pixels", 8, "Number of pixels for strip or console backends")
	demoCmd.Flags().Float64("brightness", 1.0, "Brightness scale, 0.0 to 1.0")
	return demoCmd
}
