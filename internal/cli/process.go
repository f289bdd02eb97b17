package cli

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roomi-fields/obsidian-image-autocrop/internal/config"
	"github.com/roomi-fields/obsidian-image-autocrop/internal/pipeline"
	"github.com/roomi-fields/obsidian-image-autocrop/internal/vault"
)

var (
	flagTargetSize int
	flagThreshold  int
	flagTolerance  int
	flagBackground string
	flagFitMode    string
	flagNoBackup   bool
)

var processCmd = &cobra.Command{
	Use:   "process <file|dir>...",
	Short: "Autocrop PNG files one-shot",
	Long: `Process the given PNG files, or walk the given directories for PNGs.
Files under _originals/ folders are never touched. Each processed file is
rewritten in place; with backups enabled a pristine copy is preserved at
<parent>/_originals/<name> first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		runner, err := buildRunner(cfg, "")
		if err != nil {
			return err
		}

		paths, err := collectPNGs(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no PNG files found")
		}

		var failed int
		for _, path := range paths {
			processed, err := runner.Handle(path)
			switch {
			case err != nil:
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "[autocrop] error: %v\n", err)
			case processed:
				logVerbose("done: %s", path)
			default:
				logVerbose("skipped: %s", path)
			}
		}
		if failed == len(paths) {
			return fmt.Errorf("all %d files failed to process", failed)
		}
		if failed > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "[autocrop] warning: %d of %d files had errors\n",
				failed, len(paths))
		}
		return nil
	},
}

func init() {
	processCmd.Flags().IntVar(&flagTargetSize, "target-size", 0, "output side length in pixels (1-2000)")
	processCmd.Flags().IntVar(&flagThreshold, "trim-threshold", -1, "alpha threshold separating background from content (0-255)")
	processCmd.Flags().IntVar(&flagTolerance, "background-tolerance", 0, "per-channel color distance matched as background (5-100)")
	processCmd.Flags().StringVar(&flagBackground, "background", "", `"transparent" or "#RRGGBB" fill color`)
	processCmd.Flags().StringVar(&flagFitMode, "fit-mode", "", `"pad-square" or "contain"`)
	processCmd.Flags().BoolVar(&flagNoBackup, "no-backup", false, "skip preserving originals under _originals/")
	rootCmd.AddCommand(processCmd)
}

// loadConfig loads --config when given, defaults otherwise.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// applyFlagOverrides lets process flags win over the config file.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("target-size") {
		cfg.TargetSize = flagTargetSize
	}
	if cmd.Flags().Changed("trim-threshold") {
		cfg.TrimThreshold = flagThreshold
	}
	if cmd.Flags().Changed("background-tolerance") {
		cfg.BackgroundTolerance = flagTolerance
	}
	if cmd.Flags().Changed("background") {
		cfg.BackgroundColor = flagBackground
	}
	if cmd.Flags().Changed("fit-mode") {
		cfg.FitMode = flagFitMode
	}
	if cmd.Flags().Changed("no-backup") {
		cfg.KeepBackup = !flagNoBackup
	}
}

// buildRunner assembles the pipeline, vault and in-flight set for a config.
func buildRunner(cfg *config.Config, watchedFolder string) (*pipeline.Runner, error) {
	proc, err := cfg.ProcessConfig()
	if err != nil {
		return nil, err
	}
	pipe, err := pipeline.New(proc)
	if err != nil {
		return nil, err
	}
	inflight := pipeline.NewInflight(cfg.Debounce(), nil)
	return pipeline.NewRunner(vault.New(), pipe, inflight, pipeline.RunnerOptions{
		WatchedFolder: watchedFolder,
		KeepBackup:    cfg.KeepBackup,
		Verbose:       verbose,
	}), nil
}

// collectPNGs expands file and directory arguments into PNG paths, skipping
// backup folders and hidden entries.
func collectPNGs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		err := filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if d.IsDir() {
				if strings.HasPrefix(name, ".") || name == vault.BackupDirName {
					if path != arg {
						return filepath.SkipDir
					}
				}
				return nil
			}
			if strings.EqualFold(filepath.Ext(name), ".png") && !vault.IsBackupPath(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}
