// internal/domain/product/image_test.go
package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeImage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "json array picks first url",
			raw:  `["https://cdn.example.com/a.jpg","https://cdn.example.com/b.jpg"]`,
			want: "https://cdn.example.com/a.jpg",
		},
		{
			name: "json array skips empty leading entries",
			raw:  `["", "https://cdn.example.com/b.jpg"]`,
			want: "https://cdn.example.com/b.jpg",
		},
		{
			name: "json encoded string",
			raw:  `"https://cdn.example.com/c.jpg"`,
			want: "https://cdn.example.com/c.jpg",
		},
		{
			name: "bare url",
			raw:  "https://cdn.example.com/d.jpg",
			want: "https://cdn.example.com/d.jpg",
		},
		{
			name: "empty falls back",
			raw:  "",
			want: FallbackImageURL,
		},
		{
			name: "literal null falls back",
			raw:  "null",
			want: FallbackImageURL,
		},
		{
			name: "empty array falls back",
			raw:  `[]`,
			want: FallbackImageURL,
		},
		{
			name: "malformed json array falls back",
			raw:  `["broken`,
			want: FallbackImageURL,
		},
		{
			name: "whitespace only falls back",
			raw:  "   ",
			want: FallbackImageURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeImage(tt.raw))
		})
	}
}

func TestNormalizeImages(t *testing.T) {
	t.Run("array keeps all non-empty urls", func(t *testing.T) {
		got := NormalizeImages(`["https://a.jpg","","https://b.jpg"]`)
		assert.Equal(t, []string{"https://a.jpg", "https://b.jpg"}, got)
	})

	t.Run("bare url wraps in slice", func(t *testing.T) {
		got := NormalizeImages("https://a.jpg")
		assert.Equal(t, []string{"https://a.jpg"}, got)
	})

	t.Run("empty input yields fallback", func(t *testing.T) {
		got := NormalizeImages("")
		assert.Equal(t, []string{FallbackImageURL}, got)
	})
}

func TestProductRequiresLensChoice(t *testing.T) {
	assert.True(t, (&Product{Category: CategoryEyeglasses}).RequiresLensChoice())
	assert.False(t, (&Product{Category: CategorySunglasses}).RequiresLensChoice())
	assert.False(t, (&Product{Category: CategoryLens}).RequiresLensChoice())
}
