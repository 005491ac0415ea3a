// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import "strings"

// LikeEscape is the ESCAPE clause matching the patterns built by [Contains].
const LikeEscape = ` ESCAPE '\'`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains returns a LIKE pattern matching term as a literal substring.
// Wildcards typed by the user are escaped, so "50%" only matches "50%".
func Contains(term string) string {
	return "%" + likeReplacer.Replace(term) + "%"
}
