package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, Round2(100.0/3.0))
	assert.Equal(t, 66.67, Round2(200.0/3.0))
	assert.Equal(t, 100.0, Round2(100.0))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 7.5, Round2(7.5))
}

func TestMustParseUint(t *testing.T) {
	assert.Equal(t, uint(42), MustParseUint("42"))
	assert.Equal(t, uint(0), MustParseUint("not-a-number"))
	assert.Equal(t, uint(0), MustParseUint(""))
	assert.Equal(t, uint(0), MustParseUint("-5"))
}

func TestYouTubeEmbedURL(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ": "https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                "https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://vimeo.com/12345":                     "https://vimeo.com/12345",
		"not a url at all":                            "not a url at all",
	}
	for input, want := range cases {
		assert.Equal(t, want, YouTubeEmbedURL(input), input)
	}
}
