// Package errors provides the coded, structured errors used across urlkit.
//
// Every failure the library can produce maps to a registered code:
//   - U001: the input is not a URL (no grammar matched, or a relative
//     reference was given without a usable base)
//   - U002: a pair-sequence initializer had an element that is not a pair
//   - U003: an initializer of an unsupported type was supplied
//   - U004: a global-registry definition failed
//   - U1xx: configuration problems in the CLI and service
//
// Errors compare by code, so a fresh error created with New matches the
// package-level sentinels exported by the public packages:
//
//	_, err := weburl.New("/path")
//	if errors.Is(err, weburl.ErrInvalidURL) {
//	    // relative reference without a base
//	}
//
// Format renders a multi-line terminal message; FormatCompact and
// FormatJSON are for logs and HTTP responses.
package errors
