package converter

import (
	"errors"
	"fmt"
)

// Stage names the conversion step that failed.
type Stage string

const (
	StageLock      Stage = "lock"
	StageRead      Stage = "read"
	StageParse     Stage = "parse"
	StageSerialize Stage = "serialize"
	StageWrite     Stage = "write"
	StageDelete    Stage = "delete"

	// StageConvert covers failures outside any single step, such as a panic.
	StageConvert Stage = "convert"
)

// ErrSourceLocked means another process holds the XML file for writing.
var ErrSourceLocked = errors.New("source is locked by another process")

// ConversionError is the failure of a single file. Every stage up to and
// including StageWrite leaves the XML file in place.
type ConversionError struct {
	// Path is the XML file being converted.
	Path string

	// Stage is the step that failed.
	Stage Stage

	// Err is the underlying cause.
	Err error
}

func newConversionError(path string, stage Stage, err error) *ConversionError {
	return &ConversionError{Path: path, Stage: stage, Err: err}
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
