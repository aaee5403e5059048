package sqlgen

import (
	"fmt"
	"strings"

	"bq2kafka/internal/schema"
)

// placeholder is the single token a column transform template may use
// to refer to the column's rendered expression.
const placeholder = "${column}"

// Options is the runtime configuration the synthesizer interpolates
// into connector clauses. It carries no behavior of its own.
type Options struct {
	CredentialsFile  string // BigQuery service-account key path
	BootstrapServers string // Kafka bootstrap servers
	ValueFormat      string // Kafka value serialization, e.g. "json"
}

// Statements holds the three synthesized texts in submission order.
type Statements struct {
	SourceDDL string
	SinkDDL   string
	Insert    string
}

// Generate synthesizes all three statements for a table. It is total
// over a validated schema: no error paths exist past loading.
func Generate(t *schema.Table, opts Options) Statements {
	return Statements{
		SourceDDL: SourceDDL(t, opts),
		SinkDDL:   SinkDDL(t, opts),
		Insert:    InsertSQL(t),
	}
}

// SourceDDL builds the CREATE TABLE statement declaring the BigQuery
// source to the execution engine.
func SourceDDL(t *schema.Table, opts Options) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(RenderIdentifier(t.SourceName))
	b.WriteString(" (\n")
	writeColumnList(&b, t.Columns, func(c *schema.Column) string { return c.SourceType })
	b.WriteString(") WITH (\n")
	b.WriteString("  'connector' = 'bigquery',\n")
	fmt.Fprintf(&b, "  'project' = '%s',\n", t.Source.Project)
	fmt.Fprintf(&b, "  'dataset' = '%s',\n", t.Source.Dataset)
	fmt.Fprintf(&b, "  'table' = '%s',\n", t.Source.Table)
	fmt.Fprintf(&b, "  'credentials.file' = '%s'\n", opts.CredentialsFile)
	b.WriteString(")")
	return b.String()
}

// SinkDDL builds the CREATE TABLE statement declaring the Kafka sink.
// Columns flagged as key members become the key.fields option, joined
// with ";" in declaration order. When no column is flagged the option
// is left out entirely rather than emitted empty.
func SinkDDL(t *schema.Table, opts Options) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(RenderIdentifier(t.SinkName))
	b.WriteString(" (\n")
	writeColumnList(&b, t.Columns, func(c *schema.Column) string { return c.SinkType })
	b.WriteString(") WITH (\n")
	b.WriteString("  'connector' = 'kafka',\n")
	fmt.Fprintf(&b, "  'topic' = '%s',\n", t.Sink.Topic)
	fmt.Fprintf(&b, "  'properties.bootstrap.servers' = '%s',\n", opts.BootstrapServers)
	b.WriteString("  'key.format' = 'raw',\n")

	if keys := t.KeyColumns(); len(keys) > 0 {
		rendered := make([]string, len(keys))
		for i, c := range keys {
			rendered[i] = RenderIdentifier(c.Name)
		}
		fmt.Fprintf(&b, "  'key.fields' = '%s',\n", strings.Join(rendered, ";"))
	}

	fmt.Fprintf(&b, "  'value.format' = '%s'\n", opts.ValueFormat)
	b.WriteString(")")
	return b.String()
}

// InsertSQL builds the INSERT INTO ... SELECT statement that moves rows
// from the source table into the sink, applying per-column transforms.
func InsertSQL(t *schema.Table) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(RenderIdentifier(t.SinkName))
	b.WriteString("\nSELECT\n")

	last := len(t.Columns) - 1
	for i, c := range t.Columns {
		b.WriteString("  ")
		b.WriteString(selectExpr(c))
		if i < last {
			b.WriteString(",\n")
		} else {
			b.WriteString("\n")
		}
	}

	b.WriteString("FROM ")
	b.WriteString(RenderIdentifier(t.SourceName))
	return b.String()
}

// selectExpr picks the projection expression for one column:
//
//  1. an explicit transform template wins and is emitted verbatim after
//     placeholder substitution;
//  2. a nullable column changing type is null-guarded before the cast,
//     treating the empty string as NULL;
//  3. a non-nullable column changing type is cast directly, so a cast
//     failure on malformed input surfaces at execution time;
//  4. otherwise the column reference passes through untouched.
//
// The type comparison is a literal string compare. "STRING" vs "string"
// counts as a mismatch and still produces a cast; normalizing here
// would silently change the generated SQL.
func selectExpr(c *schema.Column) string {
	ref := RenderIdentifier(c.Name)

	switch {
	case c.Transform != "":
		return strings.ReplaceAll(c.Transform, placeholder, ref)
	case c.IsNullable && c.SourceType != c.SinkType:
		return fmt.Sprintf("CAST(NULLIF(%s, '') AS %s)", ref, c.SinkType)
	case c.SourceType != c.SinkType:
		return fmt.Sprintf("CAST(%s AS %s)", ref, c.SinkType)
	default:
		return ref
	}
}

// writeColumnList emits the shared "name type" column block of both DDL
// statements, two-space indented, comma separated, no trailing comma.
func writeColumnList(b *strings.Builder, cols []*schema.Column, typeOf func(*schema.Column) string) {
	last := len(cols) - 1
	for i, c := range cols {
		b.WriteString("  ")
		b.WriteString(RenderIdentifier(c.Name))
		b.WriteString(" ")
		b.WriteString(typeOf(c))
		if i < last {
			b.WriteString(",\n")
		} else {
			b.WriteString("\n")
		}
	}
}
