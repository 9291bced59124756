package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractImageURLs(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected []string
	}{
		{
			name:     "no images",
			html:     "<p>xin chào</p>",
			expected: nil,
		},
		{
			name:     "single image",
			html:     `<p>intro</p><img class="hero" src="https://cdn.example.com/a.png" alt="a">`,
			expected: []string{"https://cdn.example.com/a.png"},
		},
		{
			name: "multiple images keep document order",
			html: `<img src="https://x/1.jpg"><p>giữa</p><img width="40" src="https://x/2.jpg">`,
			expected: []string{
				"https://x/1.jpg",
				"https://x/2.jpg",
			},
		},
		{
			name:     "duplicates are not deduplicated",
			html:     `<img src="/i/same.png"><img src="/i/same.png">`,
			expected: []string{"/i/same.png", "/i/same.png"},
		},
		{
			name:     "img without src is skipped",
			html:     `<img alt="broken"><img data-x="1" src="/ok.gif">`,
			expected: []string{"/ok.gif"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractImageURLs(tt.html))
		})
	}
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "một hai ba", StripTags("<p>một <b>hai</b> ba</p>"))
	assert.Equal(t, "plain", StripTags("plain"))
	assert.Equal(t, "", StripTags("<img src=\"x\">"))
}

func TestWordCount(t *testing.T) {
	// Tokens come from a plain split on single spaces; consecutive
	// spaces produce empty tokens that still count.
	assert.Equal(t, 3, WordCount("một hai ba"))
	assert.Equal(t, 3, WordCount("a  b"))
	assert.Equal(t, 1, WordCount(""))
}
