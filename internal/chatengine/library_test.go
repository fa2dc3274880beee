package chatengine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLibraryPresent(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, libraryPresent(dir, "libllama.so"))

	require := assert.New(t)
	f, err := os.Create(filepath.Join(dir, "libllama.so"))
	require.NoError(err)
	f.Close()

	assert.True(t, libraryPresent(dir, "libllama.so"))
}
