// Package conv provides checked integer conversions for values decoded from
// untrusted input.
package conv
