package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"classmin/internal/builder"
	"classmin/internal/config"
	"classmin/internal/ui"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for changes and rebuild",
	Run: func(cmd *cobra.Command, args []string) {
		ui.PrintHeader(Version)

		cfg, log := mustLoad(true)
		defer log.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b := builder.New(cfg, log)
		b.Quiet = true
		if err := runBuild(b); err != nil {
			ui.PrintError("Build failed: %v", err)
		} else {
			ui.PrintSuccess("Initial build complete")
		}

		ui.PrintInfo("Watching for changes...")
		ui.PrintInfo("Press Ctrl+C to stop")
		fmt.Println()

		lastMod := time.Now()
		debounce := 500 * time.Millisecond
		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				fmt.Println()
				ui.PrintInfo("Stopped watching")
				return
			case <-ticker.C:
			}

			changed, newMod := hasChanges(b, lastMod)
			if !changed || time.Since(newMod) < debounce {
				continue
			}
			lastMod = time.Now()

			ui.PrintInfo("Changes detected, rebuilding...")
			if reloaded, err := config.Load(filepath.Join(cfg.Dir, config.FileName)); err != nil {
				ui.PrintWarning("Keeping previous configuration: %v", err)
			} else {
				b = builder.New(reloaded, log)
				b.Quiet = true
			}

			start := time.Now()
			if err := runBuild(b); err != nil {
				ui.PrintError("Build failed: %v", err)
				continue
			}
			log.Debug("Rebuilt", zap.Duration("took", time.Since(start)))
			ui.PrintSuccess("Rebuilt in %s", time.Since(start).Round(time.Millisecond))
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 500*time.Millisecond, "How often to check for changes")
	rootCmd.AddCommand(watchCmd)
}

// hasChanges reports whether any source or the configuration changed after
// since, along with the newest modification time seen
func hasChanges(b *builder.Builder, since time.Time) (bool, time.Time) {
	var latestMod time.Time
	changed := false

	checkFile := func(path string) {
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.ModTime().After(since) {
			changed = true
		}
		if info.ModTime().After(latestMod) {
			latestMod = info.ModTime()
		}
	}

	files, err := b.Sources()
	if err != nil {
		return false, latestMod
	}
	for _, file := range files {
		checkFile(filepath.Join(b.SourceDir, file))
	}
	checkFile(filepath.Join(b.SourceDir, config.FileName))

	return changed, latestMod
}
