package sqlgen

import "strings"

// reservedWords is the closed set of Flink SQL keywords we expect to
// collide with real-world column names. Initialized once; the check is
// case-insensitive.
var reservedWords = map[string]bool{
	"cast":   true,
	"key":    true,
	"value":  true,
	"order":  true,
	"group":  true,
	"select": true,
	"from":   true,
	"where":  true,
	"table":  true,
}

// IsReserved reports whether name collides with a reserved keyword.
func IsReserved(name string) bool {
	return reservedWords[strings.ToLower(name)]
}
