package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMimeTypeAcceptsPDF(t *testing.T) {
	pdf := bytes.NewReader([]byte("%PDF-1.7\n%some pdf body"))

	mimeType, err := ValidateMimeType(pdf, []string{MimePDF})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mimeType)
}

func TestValidateMimeTypeRejectsDisallowed(t *testing.T) {
	html := strings.NewReader("<html><body>not course material</body></html>")

	_, err := ValidateMimeType(html, []string{MimeVideo, MimePDF})
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestIsVideo(t *testing.T) {
	assert.True(t, IsVideo("video/mp4"))
	assert.True(t, IsVideo("application/x-mpegURL"))
	assert.False(t, IsVideo("application/pdf"))
	assert.False(t, IsVideo("image/png"))
}
