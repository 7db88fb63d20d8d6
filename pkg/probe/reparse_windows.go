//go:build windows

package probe

import (
	"io/fs"
	"syscall"
)

// isReparsePoint recognizes junctions, which Lstat reports as directories or
// irregular files rather than symlinks
func isReparsePoint(info fs.FileInfo) bool {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return false
	}
	return data.FileAttributes&syscall.FILE_ATTRIBUTE_REPARSE_POINT != 0
}
