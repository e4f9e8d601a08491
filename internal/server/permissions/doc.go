// Package permissions models the fixed 4-bit permission vector attached to
// every credential and answers "is action X allowed".
//
// Bit order is part of the storage format: index 0 is the leftmost
// character of the BIT(4) column.
//
//	index  action
//	0      create
//	1      edit
//	2      view
//	3      delete
//
// The package is pure: no I/O, no shared state.
package permissions
