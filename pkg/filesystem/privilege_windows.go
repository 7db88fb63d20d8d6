//go:build windows

package filesystem

import (
	"errors"

	"golang.org/x/sys/windows"
)

func isPlatformPrivilegeError(err error) bool {
	return errors.Is(err, windows.ERROR_PRIVILEGE_NOT_HELD)
}
