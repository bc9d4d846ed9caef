package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Parse errors. Syntax errors reported by encoding/xml are wrapped in ErrSyntax.
var (
	ErrEmptyDocument   = errors.New("empty XML document")
	ErrNoRoot          = errors.New("XML document has no root element")
	ErrMultipleRoots   = errors.New("XML document has more than one root element")
	ErrTextOutsideRoot = errors.New("text data outside of root element")
	ErrMismatchedTag   = errors.New("mismatched closing tag")
	ErrUnclosedElement = errors.New("unclosed element at end of document")
	ErrSyntax          = errors.New("XML syntax error")
)

var utf8BOM = []byte("\xef\xbb\xbf")

// frame is an element that has been opened but not closed yet.
type frame struct {
	rawName string
	name    string
	obj     *Object
	text    strings.Builder
}

// parser holds the state of a single Parse call.
// cases.Caser is stateful, so every parse gets its own.
type parser struct {
	lower cases.Caser
	stack []*frame
	root  *Object
}

// Parse converts an XML document into its tree representation.
// The returned object has exactly one key: the lower-cased root element name.
func Parse(data []byte) (*Object, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	p := &parser{lower: cases.Lower(language.Und)}

	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.open(t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if err := p.close(t); err != nil {
				return nil, err
			}
		case xml.CharData:
			if err := p.chars(t); err != nil {
				return nil, err
			}
		}
		// Comments, processing instructions and directives carry no data.
	}

	if len(p.stack) > 0 {
		return nil, fmt.Errorf("%w: <%s>", ErrUnclosedElement, p.stack[len(p.stack)-1].rawName)
	}
	if p.root == nil {
		return nil, ErrNoRoot
	}
	return p.root, nil
}

func (p *parser) open(el xml.StartElement) error {
	if p.root != nil && len(p.stack) == 0 {
		return fmt.Errorf("%w: <%s>", ErrMultipleRoots, qualifiedName(el.Name))
	}

	raw := qualifiedName(el.Name)
	f := &frame{
		rawName: raw,
		name:    p.lower.String(raw),
		obj:     NewObject(),
	}
	for _, attr := range el.Attr {
		f.obj.add(qualifiedName(attr.Name), attr.Value)
	}
	p.stack = append(p.stack, f)
	return nil
}

func (p *parser) close(el xml.EndElement) error {
	if len(p.stack) == 0 {
		return fmt.Errorf("%w: </%s> without opening tag", ErrMismatchedTag, qualifiedName(el.Name))
	}
	f := p.stack[len(p.stack)-1]
	if raw := qualifiedName(el.Name); raw != f.rawName {
		return fmt.Errorf("%w: expected </%s>, got </%s>", ErrMismatchedTag, f.rawName, raw)
	}
	p.stack = p.stack[:len(p.stack)-1]

	value := f.value()
	if len(p.stack) == 0 {
		p.root = NewObject()
		p.root.Set(f.name, value)
		return nil
	}
	p.stack[len(p.stack)-1].obj.add(f.name, value)
	return nil
}

func (p *parser) chars(data xml.CharData) error {
	if len(p.stack) == 0 {
		if len(bytes.TrimSpace(data)) > 0 {
			return ErrTextOutsideRoot
		}
		return nil
	}
	p.stack[len(p.stack)-1].text.Write(data)
	return nil
}

// value collapses a closed element into a string or an object.
func (f *frame) value() any {
	text := f.text.String()
	blank := strings.TrimSpace(text) == ""

	if f.obj.Len() == 0 {
		// Text-only element, or an empty one which keeps its whitespace.
		return text
	}
	if !blank {
		if _, ok := f.obj.Get(TextKey); ok {
			f.obj.add(TextKey, text)
		} else {
			f.obj.prepend(TextKey, text)
		}
	}
	return f.obj
}

// qualifiedName renders prefix:local the way the name appears in the source.
func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
