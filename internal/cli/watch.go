package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roomi-fields/obsidian-image-autocrop/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a vault folder and autocrop new PNGs as they appear",
	Long: `Load the configuration, then monitor the watched folder for new PNG
files and process each one automatically. Events during the startup grace
period are ignored, rapid successive events per file are debounced, and a
file already being processed is never processed twice concurrently.

Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.Enabled {
			return fmt.Errorf("autocrop is disabled in the configuration")
		}
		if cfg.WatchedFolder == "" {
			return fmt.Errorf("watched_folder is not configured")
		}

		runner, err := buildRunner(cfg, cfg.WatchedFolder)
		if err != nil {
			return err
		}

		w, err := watcher.New(cfg.WatchedFolder, watcher.Options{
			Grace:    cfg.StartupGrace(),
			Debounce: cfg.Debounce(),
		})
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()

		log.Printf("[autocrop] watching %s (target %dpx, %s)",
			cfg.WatchedFolder, cfg.TargetSize, cfg.FitMode)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		for {
			select {
			case path, ok := <-w.Events():
				if !ok {
					return nil
				}
				go func(p string) {
					if _, err := runner.Handle(p); err != nil {
						log.Printf("[autocrop] error: %v", err)
					}
				}(path)
			case <-sig:
				log.Printf("[autocrop] shutting down")
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
