package crawl

import "strings"

// IdentifierFromHref derives a page identifier from a listing link target by
// stripping surrounding whitespace and the wiki path prefix.
//
// Examples (prefix "/index.php/"):
//   - "/index.php/XSS_Prevention_Cheat_Sheet" -> "XSS_Prevention_Cheat_Sheet"
//   - " /index.php/Foo " -> "Foo"
//   - "/index.php/" -> ""
func IdentifierFromHref(href, prefix string) string {
	href = strings.TrimSpace(href)
	if prefix != "" {
		href = strings.TrimPrefix(href, prefix)
	}
	return strings.TrimSpace(href)
}
