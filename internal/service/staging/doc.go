// Package staging materialises a manifest into a freshly recreated output
// directory. The pass is all-or-nothing: the first failing operation stops
// it, and the next run starts again from an empty root.
package staging
