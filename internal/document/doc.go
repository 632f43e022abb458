// Package document holds a generic parsed JSON value.
//
// Objects keep their members in document order, so a value decoded with
// Parse and written back with Encode lists keys in the order they were read.
// Numbers keep their literal text and are never converted.
package document
