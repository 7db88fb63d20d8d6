//go:build !unix && !windows

package filesystem

func isPlatformPrivilegeError(err error) bool {
	return false
}
