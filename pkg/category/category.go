// Package category buckets extracted URLs into the six fixed content-type
// categories used by the results view.
package category

import (
	"strings"

	"github.com/King-RAM/kno-url/pkg/extract"
)

// Category is a closed enumeration; every URL maps to exactly one.
type Category int

const (
	Scripts Category = iota
	Media
	API
	Documents
	HTML
	Other
)

// DisplayOrder is the fixed order groups are rendered in.
var DisplayOrder = [...]Category{Scripts, Media, API, Documents, HTML, Other}

func (c Category) String() string {
	switch c {
	case Scripts:
		return "SCRIPTS"
	case Media:
		return "MEDIA"
	case API:
		return "API / ENDPOINTS"
	case Documents:
		return "DOCUMENTS / CONFIG"
	case HTML:
		return "HTML / FRAMEWORK"
	}
	return "OTHER"
}

// flagMap binds the session's category filter flags to their categories.
var flagMap = map[string]Category{
	"-s":  Scripts,
	"-md": Media,
	"-a":  API,
	"-d":  Documents,
	"-ht": HTML,
	"-O":  Other,
}

// FromFlag maps a category filter flag (-s, -md, ...) to its category.
func FromFlag(flag string) (Category, bool) {
	c, ok := flagMap[flag]
	return c, ok
}

var (
	scriptExts = map[string]bool{".js": true, ".mjs": true}

	mediaExts = map[string]bool{
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true,
		".webp": true, ".ico": true, ".mp4": true, ".mov": true, ".wav": true,
	}

	docExts = map[string]bool{
		".json": true, ".xml": true, ".yml": true, ".yaml": true, ".pdf": true,
		".txt": true, ".doc": true, ".docx": true, ".csv": true,
	}

	htmlExts = map[string]bool{".html": true, ".htm": true}
)

// Categorize assigns exactly one category to a URL. The /api/ and graphql
// substring checks win over every extension rule.
func Categorize(url string) Category {
	if strings.Contains(url, "/api/") || strings.Contains(strings.ToLower(url), "graphql") {
		return API
	}

	ext := strings.ToLower(extract.Ext(url))
	switch {
	case scriptExts[ext]:
		return Scripts
	case mediaExts[ext]:
		return Media
	case docExts[ext]:
		return Documents
	case htmlExts[ext]:
		return HTML
	}

	// The bundle/chunk markers only matter for URLs the extension tables
	// did not claim, like a bundle with a query string after the .js.
	if strings.Contains(url, ".bundle.js") || strings.Contains(url, ".chunk.js") {
		return HTML
	}
	return Other
}
