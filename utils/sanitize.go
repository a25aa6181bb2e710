package utils

import "github.com/microcosm-cc/bluemonday"

var ugcPolicy = bluemonday.UGCPolicy()

// SanitizeHTML strips scripts and dangerous markup from user-submitted
// content (blog posts, discussions, comments) while keeping basic
// formatting tags.
func SanitizeHTML(s string) string {
	return ugcPolicy.Sanitize(s)
}
