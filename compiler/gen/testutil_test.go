package gen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/contentkit/typegen/compiler/load"
)

// demoSnapshot covers every attribute kind the generator maps: scalars,
// enumerations, relations in both arities, components, a dynamic zone,
// media, a private attribute and a single type.
func demoSnapshot() *load.Snapshot {
	return &load.Snapshot{
		Components: []*load.Component{
			{UID: "shared.quote", DisplayName: "Quote", Attributes: []*load.Attribute{
				{Name: "text", Kind: load.KindText, Required: true},
				{Name: "attribution", Kind: load.KindString},
			}},
			{UID: "shared.media-block", Attributes: []*load.Attribute{
				{Name: "caption", Kind: load.KindString},
				{Name: "file", Kind: load.KindMedia, Required: true},
			}},
			{UID: "shared.seo", Attributes: []*load.Attribute{
				{Name: "metaTitle", Kind: load.KindString, Required: true},
				{Name: "metaDescription", Kind: load.KindText},
			}},
		},
		ContentTypes: []*load.ContentType{
			{UID: "api::article.article", Kind: load.Collection, Singular: "article", Plural: "articles", Attributes: []*load.Attribute{
				{Name: "title", Kind: load.KindString, Required: true},
				{Name: "body", Kind: load.KindRichText},
				{Name: "status", Kind: load.KindEnumeration, Enum: []string{"draft", "published"}},
				{Name: "author", Kind: load.KindRelation, Target: "api::author.author", Relation: "manyToOne"},
				{Name: "tags", Kind: load.KindRelation, Target: "api::tag.tag", Relation: "manyToMany"},
				{Name: "blocks", Kind: load.KindDynamicZone, Targets: []string{"shared.quote", "shared.media-block"}},
				{Name: "internalNotes", Kind: load.KindText, Private: true},
				{Name: "publishedAt", Kind: load.KindDateTime},
			}},
			{UID: "api::author.author", Kind: load.Collection, Singular: "author", Plural: "authors", Attributes: []*load.Attribute{
				{Name: "name", Kind: load.KindString, Required: true},
				{Name: "avatar", Kind: load.KindMedia},
			}},
			{UID: "api::tag.tag", Kind: load.Collection, Singular: "tag", Plural: "tags", Attributes: []*load.Attribute{
				{Name: "label", Kind: load.KindString, Required: true},
			}},
			{UID: "api::homepage.homepage", Kind: load.Single, Singular: "homepage", Attributes: []*load.Attribute{
				{Name: "headline", Kind: load.KindString, Required: true},
				{Name: "seo", Kind: load.KindComponent, Target: "shared.seo"},
			}},
		},
	}
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := NewConfig(
		WithPackage("example.com/demo/content"),
		WithTarget(t.TempDir()),
	)
	require.NoError(t, err)
	return cfg
}

func demoGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := NewGraph(testConfig(t), demoSnapshot())
	require.NoError(t, err)
	return g
}
