// Command relatectl is a reference CLI around the relate engine: it reads
// table definitions from a JSON file, optionally overlays an entity
// dictionary / tuning TOML file, and prints the discovered relationships.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "relatectl",
	Short: "Discover foreign-key relationships across a schema",
	Long: `relatectl is a thin command-line wrapper around the relate
discovery engine, meant as a reference for wiring the engine into a CLI
or CI pipeline rather than as a production tool in its own right.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
