package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"  Spaces   everywhere  ", "spaces-everywhere"},
		{"Already-Slugged", "already-slugged"},
		{"Numbers 123 ok", "numbers-123-ok"},
		{"___", "post"},
		{"", "post"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, slugify(tc.in), "slugify(%q)", tc.in)
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short body", excerpt("short body", 30))
	assert.Equal(t, "one two three ...", excerpt("one two three four five", 3))
}
