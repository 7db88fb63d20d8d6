//go:build !windows

package probe

import "io/fs"

func isReparsePoint(fs.FileInfo) bool {
	return false
}
