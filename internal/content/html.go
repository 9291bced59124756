// Package content holds pure helpers for working with post content:
// HTML image extraction, tag stripping and relative-time formatting.
// Nothing here touches persistence.
package content

import (
	"regexp"
	"strings"
)

var (
	imgTagRe = regexp.MustCompile(`<img[^>]+src="([^">]+)"`)
	tagRe    = regexp.MustCompile(`<[^>]*>`)
)

// ExtractImageURLs returns the src of every <img> tag in the HTML, in
// document order. Duplicate URLs are kept; each occurrence becomes its
// own post_images row downstream.
func ExtractImageURLs(html string) []string {
	matches := imgTagRe.FindAllStringSubmatch(html, -1)
	if len(matches) == 0 {
		return nil
	}
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, m[1])
	}
	return urls
}

// StripTags removes every HTML tag, leaving the plain text.
func StripTags(html string) string {
	return tagRe.ReplaceAllString(html, "")
}

// WordCount counts space-separated tokens the way the QnA limit is
// enforced: a plain split on single spaces, empty tokens included.
func WordCount(text string) int {
	return len(strings.Split(text, " "))
}
