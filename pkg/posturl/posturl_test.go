package posturl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "empty input",
			input: "",
			want:  []string{},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  []string{},
		},
		{
			name:  "query and www variants dedupe",
			input: "https://instagram.com/p/ABC123/?utm=x, https://www.instagram.com/p/ABC123/",
			want:  []string{"https://instagram.com/p/ABC123"},
		},
		{
			name:  "non post links are dropped",
			input: "https://instagram.com/reel/XYZ\nhttps://instagram.com/notapost/1",
			want:  []string{"https://instagram.com/reel/XYZ"},
		},
		{
			name:  "all kinds in first seen order",
			input: "https://instagram.com/tv/T1/\nhttps://instagram.com/reels/R2, https://instagram.com/p/P3#frag",
			want: []string{
				"https://instagram.com/tv/T1",
				"https://instagram.com/reels/R2",
				"https://instagram.com/p/P3",
			},
		},
		{
			name:  "host case and scheme",
			input: "http://WWW.Instagram.COM/p/Mixed_Case-1/",
			want:  []string{"https://instagram.com/p/Mixed_Case-1"},
		},
		{
			name:  "other hosts rejected",
			input: "https://example.com/p/ABC, https://notinstagram.com/p/ABC, instagram.com/p/ABC",
			want:  []string{},
		},
		{
			name:  "nested paths rejected",
			input: "https://instagram.com/p/ABC/comments/",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	first := Normalize("https://www.instagram.com/p/A1/?x=1\nhttps://instagram.com/reel/B2/\nhttps://instagram.com/p/A1")
	assert.Equal(t, first, Normalize(joinLines(first)))
	assert.Len(t, first, 2)
}

func TestShortcode(t *testing.T) {
	sc, ok := Shortcode("https://instagram.com/p/ABC123")
	assert.True(t, ok)
	assert.Equal(t, "ABC123", sc)

	sc, ok = Shortcode("https://www.instagram.com/reel/XYZ/?igsh=1")
	assert.True(t, ok)
	assert.Equal(t, "XYZ", sc)

	_, ok = Shortcode("https://instagram.com/stories/someone/1")
	assert.False(t, ok)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "p", Kind("https://instagram.com/p/A"))
	assert.Equal(t, "reels", Kind("https://instagram.com/reels/A"))
	assert.Equal(t, "tv", Kind("https://instagram.com/tv/A/"))
	assert.Equal(t, "", Kind("https://instagram.com/explore"))
}

func joinLines(urls []string) string {
	out := ""
	for _, u := range urls {
		out += u + "\n"
	}
	return out
}
