// Package testutil provides fixtures for testing dottor components.
//
// Key components:
//   - TestEnvironment: a dotfiles root, a home directory and the matching
//     PlatformInfo, either in memory or under t.TempDir()
//   - FileTree: declarative repository layout
//   - link and file assertions that work against any types.FS
//
// Usage guidelines:
//   - use EnvMemoryOnly for planner and failure-path tests; the memory
//     filesystem cannot create symlinks
//   - use EnvIsolated whenever a real link has to exist
//   - define test data inline
package testutil
