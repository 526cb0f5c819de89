// Package pathnorm removes dot-segments from URL paths.
//
// Normalize is the total, permissive form used when resolving references:
// it never fails, treats backslash as a separator and never walks above
// the root. Canonicalize is the strict form used to validate request
// paths, rejecting inputs that Normalize would silently repair.
package pathnorm
