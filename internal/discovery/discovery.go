// =============================================================================
// XML to JSON Converter - Path Discovery Module
// =============================================================================
//
// This module enumerates the XML files under a root directory. It applies two
// filters while walking:
//   - Hidden directories (name starts with ".") are never entered
//   - Directories deeper than the configured recursion depth are never entered
//
// TRAVERSAL:
//   Depth-first, pre-order, top-down. The walk keeps an explicit stack of
//   pending directories. Children are filtered before they are pushed, so an
//   excluded directory never contributes a single descendant.
//
// LAZINESS:
//   Walk returns an iterator. Nothing touches the filesystem until the caller
//   ranges over it, and every range re-walks the tree from scratch.
//
// =============================================================================

package discovery

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/XML-to-JSON-conversion/pkg/utils"
)

// XMLSuffix is the case-sensitive suffix a file name must carry to be yielded.
const XMLSuffix = utils.XMLSuffix

// =============================================================================
// ERRORS
// =============================================================================

// WalkError reports a directory that could not be listed.
// The walk continues past it with the remaining directories.
type WalkError struct {
	// Path is the directory that failed.
	Path string

	// Err is the underlying filesystem error.
	Err error
}

func (e *WalkError) Error() string {
	return fmt.Sprintf("failed to list directory %s: %v", e.Path, e.Err)
}

func (e *WalkError) Unwrap() error {
	return e.Err
}

// =============================================================================
// TRAVERSAL
// =============================================================================

// pendingDir is a directory waiting on the stack together with its depth
// relative to the root (the root itself is depth 0).
type pendingDir struct {
	path  string
	depth int
}

// Walk lazily yields every XML file under root.
//
// PARAMETERS:
//   - root: The directory to walk. The caller has already checked that it
//     exists and is a directory.
//   - maxDepth: nil for unlimited depth. 0 yields only files directly in root,
//     1 also yields files one directory down, and so on.
//
// RETURNS:
//   - A sequence of (path, nil) for each XML file, interleaved with
//     ("", *WalkError) for each directory that could not be listed.
//
// Yielded paths are root joined with the relative path of the file.
func Walk(root string, maxDepth *int) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stack := []pendingDir{{path: root, depth: 0}}

		for len(stack) > 0 {
			dir := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			entries, err := os.ReadDir(dir.path)
			if err != nil {
				if !yield("", &WalkError{Path: dir.path, Err: err}) {
					return
				}
				continue
			}

			var children []pendingDir
			for _, entry := range entries {
				name := entry.Name()
				path := filepath.Join(dir.path, name)

				// DirEntry reports symlinked directories as non-directories, so they
				// are never followed.
				if entry.IsDir() {
					child := pendingDir{path: path, depth: dir.depth + 1}
					if shouldDescend(name, child.depth, maxDepth) {
						children = append(children, child)
					}
					continue
				}

				if entry.Type()&os.ModeSymlink != 0 && isDirLink(path) {
					continue
				}

				if strings.HasSuffix(name, XMLSuffix) {
					if !yield(path, nil) {
						return
					}
				}
			}

			// Push in reverse so siblings are visited in listing order.
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		}
	}
}

// Collect drains a discovery sequence into a slice of file paths.
// Walk errors are returned separately so the caller decides whether they are
// fatal.
func Collect(seq iter.Seq2[string, error]) ([]string, []error) {
	var files []string
	var errs []error

	for path, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, path)
	}

	return files, errs
}

// =============================================================================
// FILTERS
// =============================================================================

// IsHidden reports whether a directory name is hidden: it starts with "." and
// is not the single-character name ".".
func IsHidden(name string) bool {
	return len(name) > 1 && name[0] == '.'
}

// WithinDepth reports whether a directory at the given depth below the root
// may be entered. Depth is the number of path segments the directory has
// beyond the root. A nil maxDepth allows any depth.
func WithinDepth(depth int, maxDepth *int) bool {
	return maxDepth == nil || depth <= *maxDepth
}

func shouldDescend(name string, depth int, maxDepth *int) bool {
	return !IsHidden(name) && WithinDepth(depth, maxDepth)
}

func isDirLink(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
