package inat

import (
	"regexp"
	"strings"
)

var photoSizePattern = regexp.MustCompile(`/square\.`)

// photoVariant swaps the size token in an iNaturalist photo URL. The API
// frequently returns only the square thumbnail; the larger renditions live at
// the same path with a different size segment.
func photoVariant(href, size string) string {
	return photoSizePattern.ReplaceAllString(href, "/"+size+".")
}

// buildPhoto selects the large/medium URLs for a photo. Explicit size fields
// from upstream are copied verbatim; the square-URL substitution is the
// fallback when they are absent. Returns false when no usable URL exists.
func buildPhoto(base, large, medium, original, attribution string) (Photo, bool) {
	largeURL := firstNonEmpty(large, medium, original, base)
	mediumURL := firstNonEmpty(medium, large, base)
	if strings.Contains(base, "/square.") && large == "" && medium == "" && original == "" {
		largeURL = photoVariant(base, "large")
		mediumURL = photoVariant(base, "medium")
	}
	if largeURL == "" {
		return Photo{}, false
	}
	return Photo{URL: largeURL, MediumURL: mediumURL, Attribution: attribution}, true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
