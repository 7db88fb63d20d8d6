// Package executor applies planned actions to the host filesystem.
//
// It is the only package that mutates the filesystem. Every mutation is
// either fully applied or leaves no partial state behind: parent directories
// created for a failed link are removed again, and a displaced original is
// always renamed to a backup, never deleted.
package executor
