package chatengine

import (
	"os"
	"path/filepath"
)

// libraryPresent reports whether the named shared library already exists
// under dir, so Runtime.Init only installs it once.
func libraryPresent(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
