// internal/domain/product/image.go
package product

import (
	"encoding/json"
	"strings"
)

// FallbackImageURL is shown when a product row carries no usable image.
const FallbackImageURL = "https://images.unsplash.com/photo-1574258495973-f010dfbb5371?w=400"

// NormalizeImage resolves the image column, which legacy rows store in
// several shapes, into a single display URL. Accepted inputs:
//
//	JSON array of URLs        -> first non-empty element
//	JSON-encoded string       -> the decoded string
//	bare URL                  -> as-is
//	empty / "null" / bad JSON -> FallbackImageURL
func NormalizeImage(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return FallbackImageURL
	}

	switch trimmed[0] {
	case '[':
		var urls []string
		if err := json.Unmarshal([]byte(trimmed), &urls); err == nil {
			for _, u := range urls {
				if strings.TrimSpace(u) != "" {
					return u
				}
			}
		}
		return FallbackImageURL
	case '"':
		var u string
		if err := json.Unmarshal([]byte(trimmed), &u); err == nil && strings.TrimSpace(u) != "" {
			return u
		}
		return FallbackImageURL
	default:
		return trimmed
	}
}

// NormalizeImages resolves the image column into the full list of URLs.
// Single-URL shapes yield a one-element slice.
func NormalizeImages(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return []string{FallbackImageURL}
	}

	if trimmed[0] == '[' {
		var urls []string
		if err := json.Unmarshal([]byte(trimmed), &urls); err == nil {
			out := make([]string, 0, len(urls))
			for _, u := range urls {
				if strings.TrimSpace(u) != "" {
					out = append(out, u)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
		return []string{FallbackImageURL}
	}

	return []string{NormalizeImage(trimmed)}
}
