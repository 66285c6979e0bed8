// =============================================================================
// XML to JSON Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the XML to JSON Converter CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   xml2json PATH [flags]   - Convert one XML file or every XML file under PATH
//   xml2json version        - Display the application version
//
// ARCHITECTURE:
//   - cmd/                : CLI command definitions (Cobra)
//   - internal/discovery  : Lazy XML file discovery with depth and hidden pruning
//   - internal/xmltree    : XML parsing and JSON serialization
//   - internal/converter  : Single-file conversion pipeline
//   - internal/dispatch   : Single-file and worker pool batch runs
//   - internal/filelock   : Source locks and atomic writes
//   - internal/config     : YAML configuration
//   - internal/logger     : Console logger and progress bar
//   - pkg/utils           : Path helpers
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/XML-to-JSON-conversion/cmd"
)

func main() {
	cmd.Execute()
}
