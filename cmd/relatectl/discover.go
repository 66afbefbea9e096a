package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/relate"
)

var (
	discoverFile    string
	discoverOverlay string
	discoverWatch   bool
	discoverVerbose bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover foreign-key relationships across a set of table definitions",
	Long: `discover reads a JSON array of table definitions and runs the
relationship-discovery engine over them, printing the resulting
relationships as JSON.

An optional TOML overlay file (--overlay) can extend the entity
dictionary, business priors, and tuning knobs without recompiling.`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVar(&discoverFile, "file", "", "path to a JSON file of table definitions (required)")
	discoverCmd.Flags().StringVar(&discoverOverlay, "overlay", "", "path to a TOML overlay file")
	discoverCmd.Flags().BoolVar(&discoverWatch, "watch", false, "re-run discovery whenever --file changes")
	discoverCmd.Flags().BoolVarP(&discoverVerbose, "verbose", "v", false, "enable info-level logging")
	_ = discoverCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(discoverVerbose)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	overlay, err := loadOverlay(discoverOverlay)
	if err != nil {
		return err
	}
	opts := append([]relate.Option{relate.WithLogger(logger)}, overlay.options()...)

	if err := discoverOnce(cmd, discoverFile, opts); err != nil {
		return err
	}
	if !discoverWatch {
		return nil
	}
	return watchAndRediscover(cmd, discoverFile, opts, logger)
}

func discoverOnce(cmd *cobra.Command, path string, opts []relate.Option) error {
	tables, err := loadTables(path)
	if err != nil {
		return err
	}

	result, err := relate.DiscoverFromTableDefinitions(tables, opts...)
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result.Relationships)
}

func loadTables(path string) ([]relate.TableDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var tables []relate.TableDef
	if err := json.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return tables, nil
}

// watchAndRediscover re-runs discovery whenever the input file changes,
// debouncing rapid successive writes the way an editor's save-on-every-
// keystroke would otherwise trigger.
func watchAndRediscover(cmd *cobra.Command, path string, opts []relate.Option, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s for changes (Ctrl+C to exit)\n", path)

	var debounce *time.Timer
	const debounceDelay = 300 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(path) || !event.Has(fsnotify.Write) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				if err := discoverOnce(cmd, path, opts); err != nil {
					logger.Warn("re-discovery failed", zap.Error(err))
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}
