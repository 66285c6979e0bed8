// =============================================================================
// XML to JSON Converter - XML Tree Module
// =============================================================================
//
// This module turns XML text into a nested key/value tree and serializes that
// tree as JSON. The tree layout is:
//
//   <order id="7">                 {
//     <item>a</item>                 "order": {
//     <item>b</item>         ->        "@id": "7",
//     <note lang="en">hi</note>        "item": ["a", "b"],
//     <gap/>                           "note": {"#text": "hi", "@lang": "en"},
//   </order>                           "gap": null
//                                    }
//                                  }
//
//   - Attributes become keys prefixed with "@"
//   - Text next to attributes or child elements is stored under "#text"
//   - Text split by child elements is joined, then trimmed
//   - Repeated sibling elements become arrays
//   - An element with no attributes, children or text is null
//   - Names keep their namespace prefix ("x:a", "@xmlns:x")
//   - Every scalar is a string; nothing is cast to numbers or booleans
//
// DECODING:
//   Tokens come from encoding/xml in raw mode so prefixes survive. Start and
//   end tags are matched here. Declared encodings other than UTF-8 are
//   decoded through golang.org/x/net/html/charset. Only whitespace, comments
//   and processing instructions may follow the root element.
//
// =============================================================================

package xmltree

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Indent is the indentation used for each nesting level of the JSON output.
const Indent = "    "

// AttrPrefix marks keys that came from XML attributes.
const AttrPrefix = "@"

// TextKey holds element text when the element also has attributes or children.
const TextKey = "#text"

// ErrMalformed is wrapped by every Parse error.
var ErrMalformed = errors.New("malformed XML")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Tree is the parsed form of an XML document. Values are strings, nil for
// empty elements, nested Trees (as map[string]any) or []any for repeated
// elements.
type Tree map[string]any

// element is an open element while its content is being read.
type element struct {
	name string
	node map[string]any
	text strings.Builder
}

func newElement(start xml.StartElement) (*element, error) {
	el := &element{name: qualifiedName(start.Name)}
	for _, attr := range start.Attr {
		key := AttrPrefix + qualifiedName(attr.Name)
		if _, dup := el.node[key]; dup {
			return nil, fmt.Errorf("duplicate attribute %s on <%s>", qualifiedName(attr.Name), el.name)
		}
		el.set(key, attr.Value)
	}
	return el, nil
}

func (e *element) set(key string, value any) {
	if e.node == nil {
		e.node = make(map[string]any)
	}
	e.node[key] = value
}

// add stores a child, turning a repeated name into an array.
func (e *element) add(key string, value any) {
	existing, ok := e.node[key]
	if !ok {
		e.set(key, value)
		return
	}
	if list, isList := existing.([]any); isList {
		e.node[key] = append(list, value)
		return
	}
	e.node[key] = []any{existing, value}
}

func (e *element) value() any {
	text := strings.TrimSpace(e.text.String())
	if len(e.node) == 0 {
		if text == "" {
			return nil
		}
		return text
	}
	if text != "" {
		e.node[TextKey] = text
	}
	return e.node
}

func qualifiedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// Parse decodes XML text into a Tree.
//
// PARAMETERS:
//   - data: The complete XML document.
//
// RETURNS:
//   - The decoded tree, keyed by the root element name.
//   - An error wrapping ErrMalformed if the document is empty, badly formed,
//     or has content after the root element.
func Parse(data []byte) (Tree, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, malformed("empty XML document")
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	var (
		open []*element
		root Tree
	)

	for {
		token, err := decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if root != nil {
				return nil, malformed("junk after document element: <%s>", qualifiedName(t.Name))
			}
			el, err := newElement(t)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
			}
			open = append(open, el)

		case xml.EndElement:
			name := qualifiedName(t.Name)
			if len(open) == 0 {
				return nil, malformed("unexpected end tag </%s>", name)
			}
			el := open[len(open)-1]
			if el.name != name {
				return nil, malformed("mismatched tag: <%s> closed by </%s>", el.name, name)
			}
			open = open[:len(open)-1]

			if len(open) == 0 {
				root = Tree{el.name: el.value()}
			} else {
				open[len(open)-1].add(el.name, el.value())
			}

		case xml.CharData:
			if len(open) > 0 {
				open[len(open)-1].text.Write(t)
				continue
			}
			if len(bytes.TrimSpace(t)) == 0 {
				continue
			}
			if root != nil {
				return nil, malformed("junk after document element: %q", bytes.TrimSpace(t))
			}
			return nil, malformed("text before document element: %q", bytes.TrimSpace(t))

		case xml.Directive:
			if root != nil {
				return nil, malformed("junk after document element: <!%s>", t)
			}
		}
	}

	if len(open) > 0 {
		return nil, malformed("unexpected end of document: <%s> not closed", open[len(open)-1].name)
	}
	if root == nil {
		return nil, malformed("no document element")
	}

	return root, nil
}

// Serialize encodes a Tree as indented JSON.
//
// Object keys are sorted at every nesting level (encoding/json sorts map keys)
// and the output carries no trailing newline.
func Serialize(t Tree) ([]byte, error) {
	var buffer bytes.Buffer

	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", Indent)

	if err := encoder.Encode(map[string]any(t)); err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}

	return bytes.TrimRight(buffer.Bytes(), "\n"), nil
}
