package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeName(t *testing.T) {
	cases := []struct {
		uid  string
		want string
	}{
		{"api::article.article", "Article"},
		{"api::order-item.order-item", "OrderItem"},
		{"plugin::users-permissions.user", "User"},
		{"shared.seo", "SharedSeo"},
		{"shared.media-block", "SharedMediaBlock"},
		{"blocks.heroBanner", "BlocksHeroBanner"},
	}
	for _, c := range cases {
		t.Run(c.uid, func(t *testing.T) {
			assert.Equal(t, c.want, typeName(c.uid))
		})
	}
}

func TestPascal(t *testing.T) {
	assert.Equal(t, "Title", pascal("title"))
	assert.Equal(t, "PublishedAt", pascal("publishedAt"))
	assert.Equal(t, "MetaTitle", pascal("meta_title"))
	assert.Equal(t, "CoverImage", pascal("cover-image"))
	assert.Equal(t, "X2faEnabled", pascal("2faEnabled"))
}

func TestLowerCamel(t *testing.T) {
	assert.Equal(t, "orderItem", lowerCamel("order-item"))
	assert.Equal(t, "id", lowerCamel("id"))
}

func TestKebab(t *testing.T) {
	assert.Equal(t, "order-items", kebab("orderItems"))
	assert.Equal(t, "articles", kebab("articles"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Declared", displayName("Declared", "fallback"))
	assert.Equal(t, "Order Item", displayName("", "OrderItem"))
}
