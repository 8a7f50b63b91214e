package session

import "path/filepath"

// Key returns the canonical storage key of a session directory: the last
// element of the cleaned path. Recordings are conventionally stored in a
// directory named after the session, so the directory name doubles as the
// cache key.
func Key(basePath string) string {
	return filepath.Base(filepath.Clean(basePath))
}
