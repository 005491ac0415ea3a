// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug derives the URL identifier of a blog from its name,
// e.g. "Café Notes" becomes "cafe-notes".
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds generated slugs. Longer names are cut at a word boundary.
const MaxLength = 64

// Letters that do not decompose into a base letter plus a mark.
var folds = strings.NewReplacer("đ", "d", "ß", "ss", "æ", "ae", "ø", "o", "ł", "l")

// From lowercases name, strips accents and joins the remaining ASCII letter
// and digit runs with single hyphens. It returns "" when nothing survives.
func From(name string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, strings.ToLower(name))
	if err != nil {
		folded = strings.ToLower(name)
	}
	folded = folds.Replace(folded)

	var builder strings.Builder
	separate := false
	for _, r := range folded {
		if !isASCIIAlnum(r) {
			separate = true
			continue
		}
		if separate && builder.Len() > 0 {
			builder.WriteByte('-')
		}
		separate = false
		builder.WriteRune(r)
	}

	return truncate(builder.String())
}

func truncate(slug string) string {
	if len(slug) <= MaxLength {
		return slug
	}
	cut := slug[:MaxLength]
	if slug[MaxLength] != '-' {
		if i := strings.LastIndexByte(cut, '-'); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRight(cut, "-")
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
