//go:build unix

package gitstate

import (
	"errors"
	"syscall"
)

// isNotDir reports ENOTDIR, returned when a path component is a file.
// refs/heads/a and refs/heads/a/b cannot coexist, so this means absent.
func isNotDir(err error) bool {
	return errors.Is(err, syscall.ENOTDIR)
}
