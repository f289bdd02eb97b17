// Package cli implements the autocrop command-line interface.
package cli

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"

	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "autocrop",
	Short: "Normalize PNG illustrations into uniform square thumbnails",
	Long: `autocrop — detects an image's background color, trims it away and
recomposes the content into a square, size-constrained thumbnail with a
transparent or chosen background.

Process files one-shot, or watch a vault folder and autocrop new PNGs as
they appear. Pristine originals are preserved under _originals/ before the
first rewrite.`,
	Version: version,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Logging goes to stderr; stdout stays clean for command output.
	log.SetOutput(os.Stderr)
	log.SetFlags(0)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"autocrop %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		log.Printf("[autocrop] "+format, args...)
	}
}
