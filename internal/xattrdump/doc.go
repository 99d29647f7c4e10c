// Package xattrdump writes all extended attributes of a list of paths in the
// line format read by the get-all-xattrs caller.
//
// For every path, each attribute is written as the lower-case hex encoding
// of its name. A non-empty value follows as a single space, the hex encoded
// value and a newline. An empty value is written as the name alone, without
// a newline, unless the terminate-empty-values feature is enabled. The
// record for a path ends with the line "--".
//
// Symbolic links are never followed. Names and values are fetched with a
// size query followed by a second call that fills a buffer of that size. The
// attribute set may change between both calls: a shrink is handled by
// trusting the length returned by the second call, a growth makes the second
// call fail with ERANGE, which is fatal unless size changes are retried.
package xattrdump
