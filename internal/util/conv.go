package util

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// MustParseUint parses an unsigned integer, returning 0 on failure.
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// Round2 rounds to two decimal places (progress percentages are stored this way).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// YouTubeEmbedURL converts a watch/short URL into an iframe-compatible embed
// URL. Anything that is not a YouTube link is returned unchanged.
func YouTubeEmbedURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if strings.Contains(parsed.Host, "youtube.com") {
		if id := parsed.Query().Get("v"); id != "" {
			return "https://www.youtube.com/embed/" + id
		}
	} else if strings.Contains(parsed.Host, "youtu.be") {
		if id := strings.TrimPrefix(parsed.Path, "/"); id != "" {
			return "https://www.youtube.com/embed/" + id
		}
	}
	return raw
}
