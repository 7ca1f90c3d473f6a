// Package extract pulls URL-shaped substrings out of raw page text.
// The scan is anchored on literal scheme prefixes, not on HTML structure:
// a URL inside a comment or a string literal is treated like any other text,
// and one split across lines is not reassembled.
package extract

import "strings"

// Schemes are the extraction anchors, scanned in this fixed order.
var Schemes = [...]string{"http://", "https://", "blob:"}

// Normalize canonicalizes a bare host or URL token. A token carrying no
// scheme, no www. prefix, no dot and no colon comes back unchanged, so
// callers must not assume the result is a fetchable URL.
func Normalize(raw string) string {
	switch {
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw
	case strings.HasPrefix(raw, "www."):
		return "https://" + raw
	case strings.ContainsAny(raw, ".:"):
		return "https://" + raw
	}
	return raw
}

// URLs scans the page text once per scheme literal and returns every match
// in encounter order, one scheme after another. A token extends until the
// first whitespace byte or one of " ' < >, and scanning resumes after the
// token, so a scheme nested inside an already-matched token is not
// re-matched within the same pass. No deduplication is performed.
func URLs(text string) []string {
	var out []string
	for _, scheme := range Schemes {
		pos := 0
		for {
			i := strings.Index(text[pos:], scheme)
			if i < 0 {
				break
			}
			start := pos + i
			end := start
			for end < len(text) && !isBoundary(text[end]) {
				end++
			}
			out = append(out, text[start:end])
			pos = end
		}
	}
	return out
}

// Ext returns the extension of a URL: the substring from the last dot to the
// end, or "" when a slash follows that dot (the dot then belongs to a host
// or directory component, not a file name).
func Ext(url string) string {
	i := strings.LastIndex(url, ".")
	if i == -1 {
		return ""
	}
	if strings.Contains(url[i:], "/") {
		return ""
	}
	return url[i:]
}

func isBoundary(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r', '"', '\'', '<', '>':
		return true
	}
	return false
}
