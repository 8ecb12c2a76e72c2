package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate whenever the schema or descriptors file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, err := loadProject()
		if err != nil {
			return err
		}
		return runWatch(cmd, pc)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, pc *projectConfig) error {
	schemaPath := pick(flagSchema, pc.Schema)
	if schemaPath == "" {
		return fmt.Errorf("no schema file configured (--schema or %s)", cfgFile)
	}
	descPath := pick(flagDescriptors, pc.Descriptors)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch directories, not files: editors replace files on save, which
	// drops a file-level watch.
	watched := map[string]bool{filepath.Clean(schemaPath): true}
	dirs := map[string]bool{filepath.Dir(schemaPath): true}
	if descPath != "" {
		watched[filepath.Clean(descPath)] = true
		dirs[filepath.Dir(descPath)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	run := func() {
		if err := runGenerate(ctx, pc); err != nil {
			logger.Error().Err(err).Msg("generation failed")
		}
	}
	logger.Info().Str("schema", schemaPath).Msg("watching for changes")
	run()
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("stopping watch")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
				logger.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("change detected")
				run()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("watch error")
		}
	}
}
