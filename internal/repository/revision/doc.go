// Package revision resolves the short commit identifier used to tell
// development packages apart. Failures are logged and reported as an
// unknown revision, never as errors.
package revision
