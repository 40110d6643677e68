// Package urdf wraps a URDF robot description document. It owns parsing and
// serialization (round-tripping the XML the exporter wrote), extraction of
// the kinematic graph the links engine operates on, and the token-lean text
// reports the CLI prints. It performs no geometry processing; meshes,
// origins, and colors are carried as the strings the document spells.
package urdf

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

// ErrNoRobotElement is returned when the document has no <robot> root.
var ErrNoRobotElement = errors.New("urdf: no robot root element")

// Document is one parsed URDF file.
type Document struct {
	tree *etree.Document
	path string
}

// ParseFile reads and parses a URDF file.
func ParseFile(path string) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("urdf: failed to parse %s: %w", path, err)
	}
	doc := &Document{tree: tree, path: path}
	if doc.robot() == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRobotElement, path)
	}
	return doc, nil
}

// ParseBytes parses URDF content from memory.
func ParseBytes(data []byte) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("urdf: failed to parse document: %w", err)
	}
	doc := &Document{tree: tree}
	if doc.robot() == nil {
		return nil, ErrNoRobotElement
	}
	return doc, nil
}

// Path returns the file the document was parsed from, if any.
func (d *Document) Path() string {
	return d.path
}

func (d *Document) robot() *etree.Element {
	root := d.tree.Root()
	if root == nil || root.Tag != "robot" {
		return nil
	}
	return root
}

// RobotName returns the robot's name attribute.
func (d *Document) RobotName() string {
	return d.robot().SelectAttrValue("name", "unknown")
}

// LinkElements returns every link element in document order.
func (d *Document) LinkElements() []*etree.Element {
	return d.robot().SelectElements("link")
}

// JointElements returns every joint element in document order.
func (d *Document) JointElements() []*etree.Element {
	return d.robot().SelectElements("joint")
}

// Bytes serializes the document with the exporter's two-space indentation.
func (d *Document) Bytes() ([]byte, error) {
	d.tree.Indent(2)
	return d.tree.WriteToBytes()
}

// WriteFile serializes the document to the given path.
func (d *Document) WriteFile(path string) error {
	d.tree.Indent(2)
	if err := d.tree.WriteToFile(path); err != nil {
		return fmt.Errorf("urdf: failed to write %s: %w", path, err)
	}
	return nil
}
