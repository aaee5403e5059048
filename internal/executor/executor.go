package executor

import (
	"context"
	"fmt"

	"bq2kafka/internal/sqlgen"
)

// Stage names which of the three pipeline statements is being
// submitted, so a failure can be attributed to source setup, sink setup
// or the pipeline submission itself.
type Stage string

const (
	StageSource    Stage = "source"
	StageSink      Stage = "sink"
	StageTransform Stage = "transform"
)

// Executor is the narrow boundary to the external SQL execution engine.
// A submission either succeeds or fails; what happens to the statement
// afterwards (scheduling, streaming, retries) is the engine's business.
type Executor interface {
	ExecuteSQL(ctx context.Context, stmt string) error
}

// StageError wraps an engine failure with the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s statement failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Submit hands the three statements to the engine in dependency order:
// the source table must exist before anything reads it, and the sink
// table before the transform writes to it. The first failure stops the
// pipeline; later statements are never submitted.
func Submit(ctx context.Context, exec Executor, stmts sqlgen.Statements) error {
	stages := []struct {
		stage Stage
		stmt  string
	}{
		{StageSource, stmts.SourceDDL},
		{StageSink, stmts.SinkDDL},
		{StageTransform, stmts.Insert},
	}

	for _, s := range stages {
		if err := exec.ExecuteSQL(ctx, s.stmt); err != nil {
			return &StageError{Stage: s.stage, Err: err}
		}
	}
	return nil
}
