// Package runner executes external programs and reports their outcome as a
// typed Result instead of a bare error, so callers decide what a non-zero
// exit status means for them.
package runner
