// =============================================================================
// XML to JSON Converter - Path Utilities
// =============================================================================
//
// This module classifies the PATH argument before any work starts:
//   - A directory selects batch mode
//   - A file whose name ends in ".xml" selects single-file mode
//   - Anything else is rejected
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"strings"
)

// XMLSuffix is the case-sensitive suffix of convertible files.
const XMLSuffix = ".xml"

// PathKind is the role a PATH argument plays.
type PathKind int

const (
	// PathOther is neither a directory nor an XML file.
	PathOther PathKind = iota

	// PathDirectory selects batch mode.
	PathDirectory

	// PathXMLFile selects single-file mode.
	PathXMLFile
)

func (k PathKind) String() string {
	switch k {
	case PathDirectory:
		return "directory"
	case PathXMLFile:
		return "xml file"
	default:
		return "other"
	}
}

// ClassifyPath reports whether path is a directory, an XML file or neither.
//
// RETURNS:
//   - The kind of path.
//   - An error if the path cannot be stat'ed (for example, it does not exist).
func ClassifyPath(path string) (PathKind, error) {
	info, err := os.Stat(path)
	if err != nil {
		return PathOther, fmt.Errorf("cannot access %s: %w", path, err)
	}

	if info.IsDir() {
		return PathDirectory, nil
	}

	if strings.HasSuffix(path, XMLSuffix) {
		return PathXMLFile, nil
	}

	return PathOther, nil
}
