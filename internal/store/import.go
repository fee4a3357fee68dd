package store

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/01Taka/rooted/internal/target"
)

//go:embed target.schema.json
var targetSchemaJSON []byte

const targetSchemaURL = "schema://rooted/target.json"

var (
	targetSchemaOnce sync.Once
	targetSchema     *jsonschema.Schema
	targetSchemaErr  error
)

// ErrInvalidDocument indicates an import document that is not a valid
// learning target.
type ErrInvalidDocument struct {
	Err error
}

func (e *ErrInvalidDocument) Error() string {
	return fmt.Sprintf("invalid target document: %v", e.Err)
}

func (e *ErrInvalidDocument) Unwrap() error { return e.Err }

// DecodeTarget checks raw against the target document schema, decodes it
// and validates the result.
func DecodeTarget(raw []byte) (target.LearningTarget, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return target.LearningTarget{}, &ErrInvalidDocument{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compiledTargetSchema()
	if err != nil {
		return target.LearningTarget{}, fmt.Errorf("compile target schema: %w", err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return target.LearningTarget{}, &ErrInvalidDocument{Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	var t target.LearningTarget
	if err := json.Unmarshal(raw, &t); err != nil {
		return target.LearningTarget{}, &ErrInvalidDocument{Err: err}
	}
	if err := target.Validate(&t); err != nil {
		return target.LearningTarget{}, &ErrInvalidDocument{Err: err}
	}
	return t, nil
}

// Import decodes raw and stores it as a new target.
func Import(ctx context.Context, repo TargetRepo, raw []byte) (*Record, error) {
	t, err := DecodeTarget(raw)
	if err != nil {
		return nil, err
	}
	return repo.Create(ctx, t)
}

// Export returns the stored target with the given id as indented JSON.
func Export(ctx context.Context, repo TargetRepo, id string) ([]byte, error) {
	rec, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(rec.Target)
	if err != nil {
		return nil, fmt.Errorf("encode target %s: %w", id, err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("indent target %s: %w", id, err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// compiledTargetSchema compiles the embedded schema once.
func compiledTargetSchema() (*jsonschema.Schema, error) {
	targetSchemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(targetSchemaJSON, &def); err != nil {
			targetSchemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(targetSchemaURL, def); err != nil {
			targetSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		targetSchema, targetSchemaErr = c.Compile(targetSchemaURL)
	})
	return targetSchema, targetSchemaErr
}
