package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniffImageExt(t *testing.T) {
	tests := []struct {
		name     string
		head     []byte
		expected string
	}{
		{"png", []byte("\x89PNG\r\n\x1a\nrest"), ".png"},
		{"jpeg", []byte("\xff\xd8\xff\xe0rest"), ".jpg"},
		{"gif87", []byte("GIF87arest"), ".gif"},
		{"gif89", []byte("GIF89arest"), ".gif"},
		{"riff but not webp", []byte("RIFF\x00\x00\x00\x00WAVE"), ""},
		{"plain text", []byte("hello world"), ""},
		{"empty", nil, ""},
		{"svg is rejected", []byte("<svg xmlns=\"http://www.w3.org/2000/svg\">"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sniffImageExt(tt.head))
		})
	}
}
