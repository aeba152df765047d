package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"crlf", "a\r\nb\rc", "a\nb\nc"},
		{"trailing whitespace", "line one   \nline two\t", "line one\nline two"},
		{"inner spaces collapsed", "Google    Ads  and SEO", "Google Ads and SEO"},
		{"blank runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"bullet indent kept", "Skills\n   - SEO   content", "Skills\n   - SEO content"},
		{"plain indent dropped", "    Summary", "Summary"},
		{"whitespace only lines", "a\n   \n\t\nb", "a\n\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestIsBulletLine(t *testing.T) {
	assert.True(t, isBulletLine("- a"))
	assert.True(t, isBulletLine("* a"))
	assert.True(t, isBulletLine("• a"))
	assert.True(t, isBulletLine("· a"))
	assert.False(t, isBulletLine("-a"))
	assert.False(t, isBulletLine("Summary"))
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Doe  \r\n\r\n\r\n\r\nSEO lead\n"), 0o644))

	text, meta, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\n\nSEO lead", text)
	assert.Equal(t, "resume.txt", meta.Filename)
	assert.Equal(t, 4, meta.Words)
	assert.Len(t, meta.Hash, 64)
}

func TestReadFile_Errors(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "file not found")

	path := filepath.Join(t.TempDir(), "resume.odt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	_, _, err = ReadFile(path)
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}
