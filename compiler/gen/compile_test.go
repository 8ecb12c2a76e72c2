package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentkit/typegen/compiler/load"
)

func emitAll(t *testing.T, cfg *Config, snap *load.Snapshot) map[string][]byte {
	t.Helper()
	g, err := NewGraph(cfg, snap)
	require.NoError(t, err)
	schemaText, err := emitSchema(g)
	require.NoError(t, err)
	clientText, _, err := emitClient(g, nil, nil)
	require.NoError(t, err)
	entryText, err := emitEntry(cfg)
	require.NoError(t, err)
	return map[string][]byte{
		cfg.schemaFile(): schemaText,
		cfg.clientFile(): clientText,
		cfg.entryFile():  entryText,
	}
}

func TestCompileAll(t *testing.T) {
	cfg := testConfig(t)
	files := emitAll(t, cfg, demoSnapshot())

	compiled, err := compileAll(cfg, files)
	require.NoError(t, err)
	require.Len(t, compiled, 3)
	for name, src := range compiled {
		assert.NotEmpty(t, src, name)
	}
}

func TestCompileAllDanglingTarget(t *testing.T) {
	cfg := testConfig(t)
	snap := &load.Snapshot{ContentTypes: []*load.ContentType{
		{UID: "api::post.post", Kind: load.Collection, Attributes: []*load.Attribute{
			{Name: "owner", Kind: load.KindRelation, Target: "api::ghost.ghost", Relation: "manyToOne"},
		}},
	}}
	files := emitAll(t, cfg, snap)

	_, err := compileAll(cfg, files)
	require.Error(t, err)
	assert.True(t, IsCompileError(err))
	assert.ErrorIs(t, err, ErrCompileFailed)

	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, cfg.schemaPkg(), cerr.Package)
	require.NotEmpty(t, cerr.Diagnostics)
	assert.Contains(t, cerr.Diagnostics[0], "Ghost")
}

func TestCompileAllNovelController(t *testing.T) {
	cfg := testConfig(t)
	g, err := NewGraph(cfg, demoSnapshot())
	require.NoError(t, err)
	schemaText, err := emitSchema(g)
	require.NoError(t, err)
	// A controller with no matching content type creates a new namespace;
	// that must never be a compile failure.
	ops := []load.Operation{{
		Method:     "GET",
		Path:       "/api/search",
		Controller: "search",
		Action:     "query",
	}}
	clientText, _, err := emitClient(g, ops, nil)
	require.NoError(t, err)
	entryText, err := emitEntry(cfg)
	require.NoError(t, err)

	_, err = compileAll(cfg, map[string][]byte{
		cfg.schemaFile(): schemaText,
		cfg.clientFile(): clientText,
		cfg.entryFile():  entryText,
	})
	require.NoError(t, err)
}

func TestCompileAllBrokenText(t *testing.T) {
	cfg := testConfig(t)
	files := emitAll(t, cfg, demoSnapshot())
	files[cfg.clientFile()] = []byte("package client\n\nfunc broken() {")

	_, err := compileAll(cfg, files)
	require.Error(t, err)
	assert.True(t, IsCompileError(err))

	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, cfg.clientPkg(), cerr.Package)
}

func TestFormatText(t *testing.T) {
	cfg := testConfig(t)

	t.Run("formats valid text", func(t *testing.T) {
		got := formatText(cfg, "x.go", []byte("package x\nfunc  F( ) {}\n"))
		assert.Equal(t, "package x\n\nfunc F() {}\n", string(got))
	})
	t.Run("keeps broken text", func(t *testing.T) {
		src := []byte("package x\nfunc {")
		assert.Equal(t, src, formatText(cfg, "x.go", src))
	})
	t.Run("no-format passthrough", func(t *testing.T) {
		noFmt, err := NewConfig(
			WithPackage("example.com/demo/content"),
			WithTarget(t.TempDir()),
			WithoutFormat(),
		)
		require.NoError(t, err)
		src := []byte("package x\nfunc  F( ) {}\n")
		assert.Equal(t, src, formatText(noFmt, "x.go", src))
	})
}
