//go:build unix

package filesystem

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// Filesystems without link support (vfat, some FUSE and network mounts)
// refuse symlink(2) and link(2) with EPERM
func isPlatformPrivilegeError(err error) bool {
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return false
	}
	if linkErr.Op != "symlink" && linkErr.Op != "link" {
		return false
	}
	return errors.Is(linkErr.Err, unix.EPERM)
}
