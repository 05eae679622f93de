package types

import (
	"errors"
	"fmt"
)

var (
	ErrMissingFile       = errors.New("missing file")
	ErrSchemaMismatch    = errors.New("schema mismatch")
	ErrParseFailure      = errors.New("parse failure")
	ErrUnresolvedAccount = errors.New("unresolved account")
	ErrConversionFailure = errors.New("conversion failure")
	ErrAmbiguousAccount  = errors.New("ambiguous account mapping")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// Pipeline stage names used in error messages and logs.
const (
	StageFetch     = "fetch"
	StageExtract   = "extract"
	StageLoad      = "load"
	StageNormalize = "normalize"
	StageReconcile = "reconcile"
	StageResolve   = "resolve"
	StageExport    = "export"
)

// StageError identifies the pipeline stage and the source file a failure belongs to.
type StageError struct {
	Stage  string
	Source string
	Err    error
}

func (e *StageError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s stage failed for %s: %v", e.Stage, e.Source, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// NewStageError wraps err with stage and source information. A nil err yields nil.
func NewStageError(stage, source string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Source: source, Err: err}
}

// SchemaError reports a column that a source must provide but does not.
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: table %q has no column %q (was it renamed?)", ErrSchemaMismatch, e.Table, e.Column)
}

func (e *SchemaError) Unwrap() error { return ErrSchemaMismatch }

// ParseError reports a cell that could not be converted to a number.
type ParseError struct {
	Table  string
	Column string
	Line   int
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: table %q line %d column %q: cannot parse %q: %v",
		ErrParseFailure, e.Table, e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParseFailure, e.Err} }

// AmbiguousKeyError reports a lookup key that maps to more than one distinct value.
type AmbiguousKeyError struct {
	Table  string
	Key    string
	Values []string
}

func (e *AmbiguousKeyError) Error() string {
	return fmt.Sprintf("%s: table %q key %s maps to %v", ErrAmbiguousAccount, e.Table, e.Key, e.Values)
}

func (e *AmbiguousKeyError) Unwrap() error { return ErrAmbiguousAccount }
