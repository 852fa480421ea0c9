// Package xmldoc parses XML into a generic, order-preserving element tree.
// It imposes no schema on the documents it parses; callers pick out the
// elements and attributes they care about through the Node helpers.
package xmldoc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Document is a parsed XML document together with the bytes it was
// parsed from.
type Document struct {
	Root *Node

	raw []byte
}

// Bytes returns the document's original serialized form.
func (d *Document) Bytes() []byte {
	return d.raw
}

// Node is a single element in the document tree. Text accumulates the
// element's direct character data.
type Node struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Children []*Node
	Text     string
}

// Attr returns the value of the first attribute with the given local
// name, or "" if the element carries none.
func (n *Node) Attr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// Child returns the first child element with the given local name, or
// nil if there is none.
func (n *Node) Child(local string) *Node {
	for _, c := range n.Children {
		if c.Name.Local == local {
			return c
		}
	}
	return nil
}

// Parse decodes data as a single-rooted XML document. Parsing is strict:
// malformed markup is an error, and so is anything other than comments,
// processing instructions, and whitespace outside the root element.
func Parse(data []byte) (*Document, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var root *Node
	var stack []*Node

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xmldoc: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			node := &Node{
				Name:  t.Name,
				Attrs: append([]xml.Attr(nil), t.Attr...),
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("xmldoc: multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			} else if len(bytes.TrimSpace(t)) > 0 {
				return nil, fmt.Errorf("xmldoc: character data outside root element")
			}

		case xml.Directive:
			if len(stack) == 0 {
				return nil, fmt.Errorf("xmldoc: directive outside root element")
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("xmldoc: no root element")
	}

	return &Document{Root: root, raw: data}, nil
}
