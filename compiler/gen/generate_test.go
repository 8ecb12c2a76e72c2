package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentkit/typegen/compiler/load"
)

func TestGenerate(t *testing.T) {
	cfg := testConfig(t)
	report, err := Generate(context.Background(), cfg, demoSnapshot(), nil, nil)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.False(t, report.Failed())
	require.Len(t, report.Files, 3)

	for _, res := range report.Files {
		require.NoError(t, res.Err)
		assert.Positive(t, res.Size)
		data, err := os.ReadFile(res.Path)
		require.NoError(t, err)
		assert.Len(t, data, res.Size)
	}

	schemaSrc, err := os.ReadFile(filepath.Join(cfg.Target, "schema", "schema.go"))
	require.NoError(t, err)
	assert.Contains(t, string(schemaSrc), "type Article struct")

	clientSrc, err := os.ReadFile(filepath.Join(cfg.Target, "client", "client.go"))
	require.NoError(t, err)
	assert.Contains(t, string(clientSrc), "func New(baseURL string, opts ...Option) *Client")

	entrySrc, err := os.ReadFile(filepath.Join(cfg.Target, "content.go"))
	require.NoError(t, err)
	assert.Contains(t, string(entrySrc), "package content")
}

func TestGenerateCompileFailureWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	snap := &load.Snapshot{ContentTypes: []*load.ContentType{
		{UID: "api::post.post", Kind: load.Collection, Attributes: []*load.Attribute{
			{Name: "owner", Kind: load.KindRelation, Target: "api::ghost.ghost", Relation: "manyToOne"},
		}},
	}}
	report, err := Generate(context.Background(), cfg, snap, nil, nil)
	require.Error(t, err)
	assert.True(t, IsCompileError(err))
	assert.Nil(t, report)

	entries, err := os.ReadDir(cfg.Target)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing may be written when compilation fails")
}

func TestGenerateDeterministic(t *testing.T) {
	read := func(t *testing.T) map[string]string {
		cfg := testConfig(t)
		_, err := Generate(context.Background(), cfg, demoSnapshot(), nil, nil)
		require.NoError(t, err)
		out := make(map[string]string)
		for _, rel := range []string{
			filepath.Join("schema", "schema.go"),
			filepath.Join("client", "client.go"),
			"content.go",
		} {
			data, err := os.ReadFile(filepath.Join(cfg.Target, rel))
			require.NoError(t, err)
			out[rel] = string(data)
		}
		return out
	}
	assert.Equal(t, read(t), read(t), "two runs over the same snapshot must write identical files")
}

func TestGenerateWarnings(t *testing.T) {
	cfg := testConfig(t)
	ops := []load.Operation{{
		Method:     "POST",
		Path:       "/api/articles/bulk",
		Controller: "article",
		Action:     "bulkCreate",
	}}
	report, err := Generate(context.Background(), cfg, demoSnapshot(), ops, nil)
	require.NoError(t, err)

	var codes []string
	for _, w := range report.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, "untyped-operation")
}

func TestGenerateNilConfig(t *testing.T) {
	_, err := Generate(context.Background(), nil, demoSnapshot(), nil, nil)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestGenerateNilSnapshot(t *testing.T) {
	_, err := Generate(context.Background(), testConfig(t), nil, nil, nil)
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
}

func TestGenerateInvalidSnapshot(t *testing.T) {
	cfg := testConfig(t)
	snap := &load.Snapshot{ContentTypes: []*load.ContentType{
		{UID: "api::order-item.order-item", Kind: load.Collection},
		{UID: "api::orderItem.orderItem", Kind: load.Collection},
	}}
	_, err := Generate(context.Background(), cfg, snap, nil, nil)
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
}
