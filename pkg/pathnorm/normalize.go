package pathnorm

import "strings"

// isSeparator reports whether c separates path segments.
func isSeparator(c byte) bool {
	return c == '/' || c == '\\'
}

// splitSegments splits path on runs of separators. A leading run yields
// a leading empty segment and a trailing run a trailing empty segment,
// so "/a//b/" gives ["", "a", "b", ""] and "" gives [""].
func splitSegments(path string) []string {
	segments := make([]string, 0, strings.Count(path, "/")+1)
	start := 0
	i := 0
	for i < len(path) {
		if !isSeparator(path[i]) {
			i++
			continue
		}
		segments = append(segments, path[start:i])
		for i < len(path) && isSeparator(path[i]) {
			i++
		}
		start = i
	}
	return append(segments, path[start:])
}

// Normalize removes "." and ".." segments from path.
//
// A ".." never pops past the root marker, empty interior segments are
// dropped, and a trailing separator and a leading separator are both
// preserved. A path that normalizes to nothing yields "" (distinct
// from "/").
//
//	Normalize("/a/b/../c")  // "/a/c"
//	Normalize("/a/./b/")    // "/a/b/"
//	Normalize("/../x")      // "/x"
//	Normalize("a\\b")       // "a/b"
func Normalize(path string) string {
	segments := splitSegments(path)
	out := make([]string, 0, len(segments))

	for i, seg := range segments {
		switch {
		case seg == "..":
			if len(out) > 0 && !(len(out) == 1 && out[0] == "") {
				out = out[:len(out)-1]
			}
		case seg == ".":
		case seg == "":
			if i == 0 {
				out = append(out, "")
			}
		default:
			out = append(out, seg)
		}
	}

	if path != "" && isSeparator(path[len(path)-1]) {
		out = append(out, "")
	}
	if path != "" && isSeparator(path[0]) && (len(out) == 0 || out[0] != "") {
		out = append([]string{""}, out...)
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "/")
}
