// Package pattern implements the wildcard matcher used for user-defined
// block patterns. A pattern is a plain string with zero or more '*' markers,
// e.g. "+3316*", "*98" or "213*134".
package pattern

import "strings"

// Matches reports whether number satisfies the wildcard pattern.
//
// A pattern without '*' requires exact equality. Otherwise the pattern is
// split on '*': a non-empty leading segment anchors the start of the number,
// a non-empty trailing segment anchors the end, and every interior segment
// must appear in order without overlapping the previous match. Empty inputs
// never match.
func Matches(number, pattern string) bool {
	if number == "" || pattern == "" {
		return false
	}

	segments := strings.Split(pattern, "*")
	if len(segments) == 1 {
		return number == pattern
	}

	pos := 0
	if first := segments[0]; first != "" {
		if !strings.HasPrefix(number, first) {
			return false
		}
		pos = len(first)
	}

	for _, seg := range segments[1 : len(segments)-1] {
		if seg == "" {
			// produced by consecutive wildcards
			continue
		}
		idx := strings.Index(number[pos:], seg)
		if idx < 0 {
			return false
		}
		pos += idx + len(seg)
	}

	if last := segments[len(segments)-1]; last != "" {
		if !strings.HasSuffix(number, last) {
			return false
		}
	}

	return true
}

// MatchesAny reports whether any of the stored patterns matches the number.
func MatchesAny(number string, patterns []string) bool {
	for _, p := range patterns {
		if Matches(number, p) {
			return true
		}
	}
	return false
}
