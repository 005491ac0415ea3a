// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/quillpost/pkg/slug"
)

/*
TestFrom covers accent stripping, casing and separator cleanup.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Blog 1", "blog-1"},
		{"blog 1", "blog-1"},
		{"Café Notes", "cafe-notes"},
		{"  --Hello,   World!--  ", "hello-world"},
		{"Tiếng Việt", "tieng-viet"},
		{"Đà Lạt diary", "da-lat-diary"},
		{"Straße & Co.", "strasse-co"},
		{"snake_case_name", "snake-case-name"},
		{"日本語", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.From(tt.input))
		})
	}
}

func TestFromLongName(t *testing.T) {
	name := strings.Repeat("quill ", 20)

	got := slug.From(name)
	assert.LessOrEqual(t, len(got), slug.MaxLength)
	assert.True(t, strings.HasPrefix(got, "quill-quill"))
	assert.False(t, strings.HasSuffix(got, "-"))
	assert.True(t, strings.HasSuffix(got, "quill"), "cut at a word boundary")

	single := slug.From(strings.Repeat("a", slug.MaxLength+10))
	assert.Len(t, single, slug.MaxLength)
}
