// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import "strings"

// likeEscaper escapes the LIKE metacharacters. Backslash is the default
// LIKE escape character in PostgreSQL.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern returns a LIKE/ILIKE pattern matching values that contain
// term literally.
//
// Example:
//
//	postgres.ContainsPattern("50%_off") // `%50\%\_off%`
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
