// Package deploy copies freshly built artifacts straight into a game
// installation for fast iteration.
//
// Unlike packaging it never wipes its target, skips version resolution and
// archiving, and replaces each file atomically with go-update. It refuses to
// run while the game process holds the DLLs open.
package deploy
