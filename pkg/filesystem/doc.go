// Package filesystem provides the types.FS implementations used by dottor:
// the host OS filesystem and an afero-backed filesystem. The afero variant
// degrades to "no symlink support" on backends that cannot link, which is how
// tests exercise the privilege-gated code paths.
package filesystem
