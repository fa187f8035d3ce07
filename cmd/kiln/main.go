// Command kiln generates a backend service project from a wizard state file.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kilnproject/kiln/compiler/gen"
	"github.com/kilnproject/kiln/compiler/load"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kiln",
		Short:         "kiln turns a wizard state file into a backend service project",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenerateCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var (
		configPath string
		outDir     string
		header     string
		watch      bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the project artifacts from a state file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
			ctx := cmd.Context()

			last, err := run(ctx, logger, configPath, outDir, header, "")
			if err != nil {
				logger.Error("generate failed", "err", err)
				return err
			}
			if !watch {
				return nil
			}
			return watchState(ctx, logger, configPath, outDir, header, last)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "wizard state file (YAML)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().StringVar(&header, "header", "", "comment placed at the top of main.py")
	cmd.Flags().BoolVar(&watch, "watch", false, "regenerate when the state file changes")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

// run generates once. It returns the state fingerprint so watch mode can
// skip regeneration when a write did not change the state.
func run(ctx context.Context, logger *log.Logger, configPath, outDir, header, lastPrint string) (string, error) {
	f, err := os.Open(configPath)
	if err != nil {
		return lastPrint, err
	}
	defer f.Close()

	state, err := load.Read(f)
	if err != nil {
		return lastPrint, err
	}
	print, err := state.Fingerprint()
	if err != nil {
		return lastPrint, err
	}
	if print == lastPrint {
		logger.Debug("state unchanged, skipping", "fingerprint", print[:12])
		return lastPrint, nil
	}

	var opts []gen.Option
	if header != "" {
		opts = append(opts, gen.WithHeader(header))
	}
	files, err := gen.Generate(state, opts...)
	if err != nil {
		return lastPrint, err
	}
	if err := gen.NewWriter(outDir).WriteAll(ctx, files); err != nil {
		return lastPrint, err
	}
	logger.Info("project generated", "files", len(files), "out", outDir)
	return print, nil
}

// watchState regenerates on every relevant change of the state file. The
// parent directory is watched because most editors replace the file on save.
func watchState(ctx context.Context, logger *log.Logger, configPath, outDir, header, last string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(configPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Info("watching for changes", "file", configPath)

	target := filepath.Clean(configPath)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			next, err := run(ctx, logger, configPath, outDir, header, last)
			if err != nil {
				logger.Error("regenerate failed", "err", err)
				continue
			}
			last = next
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}
