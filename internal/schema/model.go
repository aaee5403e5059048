package schema

// BigQueryRef locates the physical source table. The synthesizer only
// interpolates these values into connector options; it never validates
// them against the warehouse.
type BigQueryRef struct {
	Project string
	Dataset string
	Table   string
}

// KafkaRef locates the physical sink topic.
type KafkaRef struct {
	Topic string
}

type Table struct {
	SourceName string // logical name of the Flink source table
	SinkName   string // logical name of the Flink sink table
	Source     BigQueryRef
	Sink       KafkaRef
	Columns    []*Column
}

type Column struct {
	Name       string
	SourceType string // BigQuery-side type, passed through verbatim
	SinkType   string // Kafka-side type, passed through verbatim
	IsNullable bool
	IsKey      bool   // member of the Kafka message key
	Transform  string // optional SELECT expression template, "" when absent
}

// KeyColumns returns the key-flagged columns in declaration order.
func (t *Table) KeyColumns() []*Column {
	var keys []*Column
	for _, c := range t.Columns {
		if c.IsKey {
			keys = append(keys, c)
		}
	}
	return keys
}
