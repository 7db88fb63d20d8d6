package filesystem

import (
	"errors"

	"github.com/spf13/afero"
)

// IsPrivilegeError reports whether a link error means the platform refused
// the link type for lack of privilege rather than an ordinary I/O fault
func IsPrivilegeError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, afero.ErrNoSymlink) || errors.Is(err, ErrNoHardlink) {
		return true
	}
	return isPlatformPrivilegeError(err)
}
