package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePut(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/uploads")

	url, err := store.Put("profile-images/a.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/profile-images/a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "profile-images", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalStoreDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "")

	_, err := store.Put("a.png", strings.NewReader("x"), "image/png")
	require.NoError(t, err)
	require.NoError(t, store.Delete("a.png"))

	_, err = os.Stat(filepath.Join(dir, "a.png"))
	assert.True(t, os.IsNotExist(err))
}
