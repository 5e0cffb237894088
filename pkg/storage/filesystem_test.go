package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "notes.pdf", SanitizeFilename("notes.pdf"))
	assert.Equal(t, "my_notes.pdf", SanitizeFilename("my notes.pdf"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "upload", SanitizeFilename("../.."))
	assert.Equal(t, "rsum.pdf", SanitizeFilename("résumé.pdf"))
}

func TestExtensionAllowed(t *testing.T) {
	allowed := []string{"pdf", "png", "docx"}
	assert.True(t, ExtensionAllowed("report.pdf", allowed))
	assert.True(t, ExtensionAllowed("REPORT.PDF", allowed))
	assert.True(t, ExtensionAllowed("chart.png", allowed))
	assert.False(t, ExtensionAllowed("script.sh", allowed))
	assert.False(t, ExtensionAllowed("noextension", allowed))
	assert.False(t, ExtensionAllowed("archive.pdf.exe", allowed))
}

func TestUploadNameEmbedsOwner(t *testing.T) {
	name := UploadName("user-1", "my report.pdf")
	assert.True(t, strings.HasPrefix(name, "user-1_"))
	assert.True(t, strings.HasSuffix(name, "_my_report.pdf"))
}

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	stored, err := store.Save("hello.txt", []byte("hello"))
	require.NoError(t, err)

	file, err := store.Open(stored)
	require.NoError(t, err)
	defer file.Close()

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	require.NoError(t, store.Delete(stored))
	_, err = store.Open(stored)
	assert.Error(t, err)
}

func TestLocalStorageSaveStream(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	stored, err := store.SaveStream("stream.txt", strings.NewReader("streamed"))
	require.NoError(t, err)

	file, err := store.Open(stored)
	require.NoError(t, err)
	defer file.Close()

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "streamed", string(content))
}
