package gen

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitSchemaDeterministic(t *testing.T) {
	g := demoGraph(t)
	first, err := emitSchema(g)
	require.NoError(t, err)
	second, err := emitSchema(g)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same graph must render byte-identical output")
}

func TestEmitSchemaDeclarations(t *testing.T) {
	src := flatSchema(t)

	assert.Contains(t, src, "Code generated by typegen. DO NOT EDIT.")
	assert.Contains(t, src, "package schema")

	// Components and content types are all declared; media is always present.
	for _, decl := range []string{
		"type Media struct",
		"type SharedQuote struct",
		"type SharedMediaBlock struct",
		"type SharedSeo struct",
		"type Article struct",
		"type Author struct",
		"type Tag struct",
		"type Homepage struct",
	} {
		assert.Contains(t, src, decl)
	}
}

func TestEmitSchemaOptionality(t *testing.T) {
	src := flatSchema(t)

	// Required scalars stay bare, optional scalars become pointers with
	// omitempty.
	assert.Contains(t, src, "Title string `json:\"title\"`")
	assert.Contains(t, src, "Body *string `json:\"body,omitempty\"`")
	assert.Contains(t, src, "PublishedAt *time.Time `json:\"publishedAt,omitempty\"`")
}

func TestEmitSchemaRelations(t *testing.T) {
	src := flatSchema(t)

	assert.Contains(t, src, "Author *Author `json:\"author,omitempty\"`")
	assert.Contains(t, src, "Tags []Tag `json:\"tags,omitempty\"`")
	assert.Contains(t, src, "Seo *SharedSeo `json:\"seo,omitempty\"`")
}

func TestEmitSchemaPrivacy(t *testing.T) {
	src := flatSchema(t)
	assert.NotContains(t, src, "InternalNotes")
	assert.NotContains(t, src, "internalNotes")
}

func TestEmitSchemaEnum(t *testing.T) {
	src := flatSchema(t)

	assert.Contains(t, src, "type ArticleStatus string")
	assert.Contains(t, src, "ArticleStatusDraft ArticleStatus = \"draft\"")
	assert.Contains(t, src, "ArticleStatusPublished ArticleStatus = \"published\"")
	assert.Contains(t, src, "func (ArticleStatus) Values() []string")
}

func TestEmitSchemaDynamicZone(t *testing.T) {
	src := flatSchema(t)

	assert.Contains(t, src, "Blocks []ArticleBlocksItem `json:\"blocks,omitempty\"`")
	assert.Contains(t, src, "type ArticleBlocksItem struct")
	assert.Contains(t, src, "Component string `json:\"__component\"`")
	assert.Contains(t, src, "SharedQuote *SharedQuote `json:\"-\"`")
	assert.Contains(t, src, "func (v ArticleBlocksItem) MarshalJSON()")
	assert.Contains(t, src, "func (v *ArticleBlocksItem) UnmarshalJSON(data []byte) error")
	assert.Contains(t, src, `case "shared.quote":`)
	assert.Contains(t, src, `case "shared.media-block":`)
}

func TestEmitSchemaIdentifier(t *testing.T) {
	src := flatSchema(t)

	// Content types carry the server-assigned identifier; components do not.
	assert.Contains(t, src, "type Article struct { ID string `json:\"id\"`")
	assert.NotContains(t, src, "type SharedSeo struct { ID string")
}

func TestEmitSchemaMedia(t *testing.T) {
	src := flatSchema(t)

	// Optionality applies to media like any other kind: optional single media
	// is a pointer, required single media a bare value.
	assert.Contains(t, src, "Avatar *Media `json:\"avatar,omitempty\"`")
	assert.Contains(t, src, "File Media `json:\"file\"`")
	assert.NotContains(t, src, "File *Media")
}

var spaceRun = regexp.MustCompile(`\s+`)

// flatSchema renders the demo declarations and collapses whitespace so
// assertions do not depend on gofmt column alignment.
func flatSchema(t *testing.T) string {
	t.Helper()
	out, err := emitSchema(demoGraph(t))
	require.NoError(t, err)
	return flatten(string(out))
}

// flatten collapses whitespace runs and normalizes concatenation spacing so
// assertions do not depend on the printer's binary-operator heuristics.
func flatten(s string) string {
	s = spaceRun.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, " + ", "+")
	return strings.TrimSpace(s)
}
