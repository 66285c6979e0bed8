// =============================================================================
// XML to JSON Converter - Converter Module
// =============================================================================
//
// This module contains the single-file conversion. It runs the whole pipeline
// for one XML file, from reading it to writing the JSON sibling.
//
// CONVERSION PIPELINE:
//   1. Take a shared lock on the source (fails while a writer holds it)
//   2. Read the entire file
//   3. Parse the XML into a tree
//   4. Serialize the tree as JSON (sorted keys, 4-space indent)
//   5. Atomically write the JSON next to the source
//   6. Remove the source, when requested and only after step 5 succeeded
//
// CONCURRENCY:
//   One Converter is shared by every worker of a batch. Conversions of
//   different files are independent; two sources that map to the same JSON
//   file take turns writing it.
//
// =============================================================================

package converter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/XML-to-JSON-conversion/internal/filelock"
	"github.com/ginjaninja78/XML-to-JSON-conversion/internal/xmltree"
)

// JSONExtension replaces everything after the first dot of the file name.
const JSONExtension = ".json"

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting a single file.
type Result struct {
	// FilePath is the XML file that was converted.
	FilePath string

	// OutputFile is the JSON file that was written.
	// This is empty if the write never happened.
	OutputFile string

	// Success indicates whether the conversion finished.
	Success bool

	// SourceDeleted is true when the XML file was removed afterwards.
	SourceDeleted bool

	// Error holds the *ConversionError when Success is false.
	Error error

	// Duration is the time spent on this file.
	Duration time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter turns XML files into JSON files.
type Converter struct {
	// deleteSource removes the XML file after a successful write.
	deleteSource bool

	// logger receives per-file progress messages.
	logger Logger

	// outputs serializes writes to the same JSON path.
	outputs *filelock.PathMutex

	// writeFile performs the final write. Replaced in tests.
	writeFile func(pm *filelock.PathMutex, path string, data []byte) error
}

// Logger is the logging interface the converter writes to.
// internal/logger.ConsoleLogger satisfies it.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a Converter.
//
// PARAMETERS:
//   - deleteSource: Remove each XML file once its JSON file is written.
//   - logger: Destination for progress messages. nil discards them.
func New(deleteSource bool, logger Logger) *Converter {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Converter{
		deleteSource: deleteSource,
		logger:       logger,
		outputs:      filelock.NewPathMutex(),
		writeFile:    filelock.LockAndWrite,
	}
}

// Logger returns the logger the converter writes to. Never nil.
func (c *Converter) Logger() Logger {
	return c.logger
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run converts one XML file and reports the outcome. It never panics on bad
// input; every failure is carried in Result.Error as a *ConversionError.
func (c *Converter) Run(xmlPath string) Result {
	startTime := time.Now()
	result := Result{FilePath: xmlPath}

	c.logger.Debug("Converting %s", xmlPath)

	outputPath, deleted, err := c.convert(xmlPath)
	result.OutputFile = outputPath
	result.SourceDeleted = deleted
	result.Duration = time.Since(startTime)

	if err != nil {
		result.Error = err
		c.logger.Debug("Failed %s: %v", xmlPath, err)
		return result
	}

	result.Success = true
	c.logger.Debug("Wrote %s", outputPath)
	return result
}

// Convert converts one XML file and returns only the error.
func (c *Converter) Convert(xmlPath string) error {
	return c.Run(xmlPath).Error
}

func (c *Converter) convert(xmlPath string) (string, bool, error) {
	// =========================================================================
	// STEP 1: LOCK SOURCE
	// =========================================================================
	// flock opens with O_CREATE, so a missing source must be caught first or
	// the lock would create an empty file in its place.

	if _, err := os.Stat(xmlPath); err != nil {
		return "", false, newConversionError(xmlPath, StageRead, err)
	}

	lock := filelock.NewFileLock(xmlPath)
	acquired, err := lock.TryRLock()
	if err != nil {
		return "", false, newConversionError(xmlPath, StageLock, err)
	}
	if !acquired {
		return "", false, newConversionError(xmlPath, StageLock, ErrSourceLocked)
	}

	outputPath, err := c.writeJSON(xmlPath)

	// The lock handle must be closed before the source can be removed on
	// platforms that refuse to delete open files.
	if unlockErr := lock.Unlock(); unlockErr != nil {
		c.logger.Warn("Failed to unlock %s: %v", xmlPath, unlockErr)
	}

	if err != nil {
		return outputPath, false, err
	}

	// =========================================================================
	// STEP 6: REMOVE SOURCE
	// =========================================================================

	if !c.deleteSource {
		return outputPath, false, nil
	}

	if err := os.Remove(xmlPath); err != nil {
		return outputPath, false, newConversionError(xmlPath, StageDelete, err)
	}

	return outputPath, true, nil
}

// writeJSON runs steps 2-5 while the source is locked.
func (c *Converter) writeJSON(xmlPath string) (string, error) {
	// STEP 2: READ
	data, err := os.ReadFile(xmlPath)
	if err != nil {
		return "", newConversionError(xmlPath, StageRead, err)
	}

	// STEP 3: PARSE
	tree, err := xmltree.Parse(data)
	if err != nil {
		return "", newConversionError(xmlPath, StageParse, err)
	}

	// STEP 4: SERIALIZE
	jsonData, err := xmltree.Serialize(tree)
	if err != nil {
		return "", newConversionError(xmlPath, StageSerialize, err)
	}

	// STEP 5: WRITE
	outputPath := OutputPath(xmlPath)
	if err := c.writeFile(c.outputs, outputPath, jsonData); err != nil {
		return "", newConversionError(xmlPath, StageWrite, err)
	}

	return outputPath, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OutputPath returns the JSON path for an XML file: same directory, file name
// cut at its first dot, ".json" appended.
//
// EXAMPLES:
//   data/report.v2.xml -> data/report.json
//   data/a.b.xml       -> data/a.json
//   data/.cfg.xml      -> data/.json
//   data/.xml          -> data/.json
func OutputPath(xmlPath string) string {
	dir, name := filepath.Split(xmlPath)
	return dir + outputName(name)
}

func outputName(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return name + JSONExtension
}

// =============================================================================
// DEFAULT LOGGER
// =============================================================================

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// IsConversionError reports whether err carries a *ConversionError.
func IsConversionError(err error) bool {
	var convErr *ConversionError
	return errors.As(err, &convErr)
}
