package gen

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/contentkit/typegen/compiler/load"
)

// Report is the outcome of a generation run. Warnings and per-file write
// results are reported together because by the time writing starts the
// output already compiled: partial delivery is more useful than none.
type Report struct {
	Files    []FileResult
	Warnings []Warning
}

// FileResult records one attempted write.
type FileResult struct {
	Path string
	Size int
	Err  error
}

// Failed reports whether any file write failed.
func (r *Report) Failed() bool {
	for _, f := range r.Files {
		if f.Err != nil {
			return true
		}
	}
	return false
}

// Generate runs the full pipeline for one snapshot: graph resolution, the
// three emitters, the in-memory compile gate, then the filesystem writes.
// It is the only function with filesystem side effects. Emitter and compile
// failures abort the run with nothing written; a nil error with a non-nil
// Report means compilation succeeded and each file write was attempted.
func Generate(ctx context.Context, cfg *Config, snap *load.Snapshot, ops []load.Operation, extras []load.ExtraType) (*Report, error) {
	if cfg == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	g, err := NewGraph(cfg, snap)
	if err != nil {
		return nil, err
	}

	// The emitters have no data dependency on each other's output and are
	// pure functions of the graph, so they run concurrently. All three
	// texts must exist before the compile gate runs.
	var (
		schemaText, clientText, entryText []byte
		clientWarns                       []Warning
	)
	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(3)
	eg.Go(func() error {
		var err error
		schemaText, err = emitSchema(g)
		return err
	})
	eg.Go(func() error {
		var err error
		clientText, clientWarns, err = emitClient(g, ops, extras)
		return err
	})
	eg.Go(func() error {
		var err error
		entryText, err = emitEntry(cfg)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	files := map[string][]byte{
		cfg.schemaFile(): schemaText,
		cfg.clientFile(): clientText,
		cfg.entryFile():  entryText,
	}
	compiled, err := compileAll(cfg, files)
	if err != nil {
		return nil, err
	}

	report := &Report{Warnings: append(g.Warnings, clientWarns...)}
	for _, w := range report.Warnings {
		cfg.Logger.Warn().Str("code", w.Code).Msg(w.Message)
	}

	// Writes happen only after the whole set compiled. Each write is
	// attempted independently; one failure does not abort the rest.
	for _, name := range []string{cfg.schemaFile(), cfg.clientFile(), cfg.entryFile()} {
		path := filepath.Join(cfg.Target, name)
		res := FileResult{Path: path, Size: len(compiled[name])}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			res.Err = err
		} else if err := os.WriteFile(path, compiled[name], 0o644); err != nil {
			res.Err = err
		}
		if res.Err != nil {
			cfg.Logger.Error().Str("file", path).Err(res.Err).Msg("write failed")
		}
		report.Files = append(report.Files, res)
	}
	return report, nil
}
