package sqlgen

import "strings"

// QuoteIdentifier wraps a Flink SQL identifier in backticks, escaping
// any backticks within the name.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// RenderIdentifier emits an identifier the way it must appear in every
// generated statement: verbatim unless it collides with a reserved
// keyword, in which case it is quoted. Key matching on the Kafka side
// breaks if the same name is rendered differently in the DDL column
// list and the key.fields option, so every caller goes through here.
func RenderIdentifier(name string) string {
	if IsReserved(name) {
		return QuoteIdentifier(name)
	}
	return name
}
