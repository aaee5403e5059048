package schema

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// ValidationError reports a schema document that cannot produce a
// usable Table. It always names the offending field or column so the
// operator can fix the file without reading source code.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid schema: field %q: %s", e.Field, e.Reason)
}

// Wire structures mirror the JSON document. Nullable is a pointer so a
// missing value can be told apart from an explicit false.
type columnDoc struct {
	Name       string `json:"name"`
	SourceType string `json:"sourceType"`
	SinkType   string `json:"sinkType"`
	Nullable   *bool  `json:"nullable"`
	KeyField   bool   `json:"keyField"`
	Transform  string `json:"transform"`
}

type tableDoc struct {
	SourceTableName string      `json:"sourceTableName"`
	SinkTableName   string      `json:"sinkTableName"`
	BigQueryProject string      `json:"bigQueryProject"`
	BigQueryDataset string      `json:"bigQueryDataset"`
	BigQueryTable   string      `json:"bigQueryTable"`
	KafkaTopic      string      `json:"kafkaTopic"`
	Columns         []columnDoc `json:"columns"`
}

// Load reads and validates a schema definition file.
//
// Validation stops at structure: required fields must be present and
// column names unique. The type strings are opaque payloads understood
// only by the execution engine, so no type checking happens here.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema definition %s: %w", path, err)
	}

	var doc tableDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema definition %s: %w", path, err)
	}

	return buildTable(&doc)
}

func buildTable(doc *tableDoc) (*Table, error) {
	required := []struct {
		field string
		value string
	}{
		{"sourceTableName", doc.SourceTableName},
		{"sinkTableName", doc.SinkTableName},
		{"bigQueryProject", doc.BigQueryProject},
		{"bigQueryDataset", doc.BigQueryDataset},
		{"bigQueryTable", doc.BigQueryTable},
		{"kafkaTopic", doc.KafkaTopic},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, &ValidationError{Field: r.field, Reason: "required"}
		}
	}
	if len(doc.Columns) == 0 {
		return nil, &ValidationError{Field: "columns", Reason: "at least one column required"}
	}

	t := &Table{
		SourceName: doc.SourceTableName,
		SinkName:   doc.SinkTableName,
		Source: BigQueryRef{
			Project: doc.BigQueryProject,
			Dataset: doc.BigQueryDataset,
			Table:   doc.BigQueryTable,
		},
		Sink: KafkaRef{Topic: doc.KafkaTopic},
	}

	seen := make(map[string]bool, len(doc.Columns))
	for i, cd := range doc.Columns {
		ref := fmt.Sprintf("columns[%d]", i)
		if cd.Name == "" {
			return nil, &ValidationError{Field: ref + ".name", Reason: "required"}
		}
		if cd.SourceType == "" {
			return nil, &ValidationError{Field: ref + ".sourceType", Reason: "required"}
		}
		if cd.SinkType == "" {
			return nil, &ValidationError{Field: ref + ".sinkType", Reason: "required"}
		}
		if cd.Nullable == nil {
			return nil, &ValidationError{Field: ref + ".nullable", Reason: "required"}
		}
		if seen[cd.Name] {
			return nil, &ValidationError{Field: "columns", Reason: fmt.Sprintf("duplicate column name %q", cd.Name)}
		}
		seen[cd.Name] = true

		t.Columns = append(t.Columns, &Column{
			Name:       cd.Name,
			SourceType: cd.SourceType,
			SinkType:   cd.SinkType,
			IsNullable: *cd.Nullable,
			IsKey:      cd.KeyField,
			Transform:  cd.Transform,
		})
	}

	return t, nil
}
