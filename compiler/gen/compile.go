package gen

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"

	"golang.org/x/tools/imports"
)

// compileAll validates the generated texts as a closed in-memory compilation
// unit: the three packages are parsed into one file set and type-checked in
// dependency order, with cross-references between them resolved against the
// in-memory results while built-in library imports fall through to the real
// environment. Any diagnostic aborts the run; on success the (formatted)
// texts are returned keyed exactly like the input.
func compileAll(cfg *Config, files map[string][]byte) (map[string][]byte, error) {
	out := make(map[string][]byte, len(files))
	for name, src := range files {
		out[name] = formatText(cfg, name, src)
	}

	fset := token.NewFileSet()
	imp := &memImporter{
		done:     make(map[string]*types.Package),
		fallback: importer.ForCompiler(fset, "source", nil),
	}
	units := []struct {
		path  string
		files []string
	}{
		{cfg.schemaPkg(), []string{cfg.schemaFile()}},
		{cfg.clientPkg(), []string{cfg.clientFile()}},
		{cfg.Package, []string{cfg.entryFile()}},
	}
	for _, u := range units {
		var (
			astFiles []*ast.File
			diags    []string
		)
		for _, name := range u.files {
			fl, err := parser.ParseFile(fset, name, out[name], parser.ParseComments)
			if err != nil {
				return nil, &CompileError{Package: u.path, Diagnostics: []string{err.Error()}}
			}
			astFiles = append(astFiles, fl)
		}
		conf := types.Config{
			Importer: imp,
			Error: func(err error) {
				diags = append(diags, err.Error())
			},
		}
		pkg, _ := conf.Check(u.path, fset, astFiles, nil)
		if len(diags) > 0 {
			return nil, &CompileError{Package: u.path, Diagnostics: diags}
		}
		imp.done[u.path] = pkg
	}
	return out, nil
}

// formatText is the cosmetic pass. A formatter failure never gates
// correctness: the raw text is kept and the event is logged.
func formatText(cfg *Config, name string, src []byte) []byte {
	if cfg.NoFormat {
		return src
	}
	formatted, err := imports.Process(name, src, nil)
	if err != nil {
		cfg.Logger.Warn().Str("file", name).Err(err).Msg("formatter failed, keeping unformatted text")
		return src
	}
	return formatted
}

// memImporter resolves the generated import paths against the in-memory
// type-checked packages and delegates everything else to the surrounding
// environment.
type memImporter struct {
	done     map[string]*types.Package
	fallback types.Importer
}

func (m *memImporter) Import(path string) (*types.Package, error) {
	if pkg, ok := m.done[path]; ok {
		return pkg, nil
	}
	return m.fallback.Import(path)
}
