package load

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	base := func() *Snapshot {
		return &Snapshot{ContentTypes: []*ContentType{
			{UID: "api::article.article", Kind: Collection, Attributes: []*Attribute{
				{Name: "title", Kind: KindString, Required: true},
				{Name: "body", Kind: KindRichText},
			}},
		}}
	}

	t.Run("stable for equal snapshots", func(t *testing.T) {
		a, err := base().Fingerprint()
		require.NoError(t, err)
		b, err := base().Fingerprint()
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Len(t, a, 64) // sha256 hex
	})

	t.Run("changes with content", func(t *testing.T) {
		a, err := base().Fingerprint()
		require.NoError(t, err)
		s := base()
		s.ContentTypes[0].Attributes[1].Required = true
		b, err := s.Fingerprint()
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("changes with attribute order", func(t *testing.T) {
		a, err := base().Fingerprint()
		require.NoError(t, err)
		s := base()
		attrs := s.ContentTypes[0].Attributes
		attrs[0], attrs[1] = attrs[1], attrs[0]
		b, err := s.Fingerprint()
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}
