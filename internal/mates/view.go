// Package mates keeps mate/joint names consistent across the three JSON
// documents that jointly describe one Onshape assembly: mate values,
// features, and the root assembly. The three views name the same mates but
// with independent structure, so every rename has to land in all of them.
package mates

import (
	"fmt"
	"strings"
)

// ViewKind identifies one of the three mate document views.
type ViewKind int

const (
	// ViewMateValues is matevalues_data.json: every entry carrying a
	// mateName field is in scope.
	ViewMateValues ViewKind = iota

	// ViewFeatures is features_data.json: mate-typed features are in scope,
	// except the fixed non-DOF mate name.
	ViewFeatures

	// ViewAssembly is assembly_data.json: only features whose name carries
	// the DOF prefix, or matches the fixed legacy name, are in scope.
	ViewAssembly
)

// AllViews lists the views in canonical order.
var AllViews = []ViewKind{ViewMateValues, ViewFeatures, ViewAssembly}

func (k ViewKind) String() string {
	switch k {
	case ViewMateValues:
		return "matevalues"
	case ViewFeatures:
		return "features"
	case ViewAssembly:
		return "assembly"
	default:
		return fmt.Sprintf("view(%d)", int(k))
	}
}

// FileName returns the conventional document file name for the view.
func (k ViewKind) FileName() string {
	switch k {
	case ViewMateValues:
		return "matevalues_data.json"
	case ViewFeatures:
		return "features_data.json"
	case ViewAssembly:
		return "assembly_data.json"
	default:
		return "unknown.json"
	}
}

const (
	// excludedFeatureName is the trivially fixed mate in the features view.
	// It is not a degree of freedom and is never in scope.
	excludedFeatureName = "Fastened 1"

	// dofPrefix marks an assembly feature as a recognized degree of freedom.
	dofPrefix = "dof_"

	// legacyAssemblyName is the one fixed assembly feature name accepted
	// without the DOF prefix. The narrowing this implies relative to the
	// other two views is preserved deliberately; see DESIGN.md.
	legacyAssemblyName = "Planar 1"
)

// Document is one parsed view. Err is set when the document could not be
// loaded; extraction treats that as a diagnostic, not a failure, unless all
// three views are unavailable.
type Document struct {
	Root map[string]any
	Err  error
}

// Available reports whether the document was loaded.
func (d Document) Available() bool {
	return d.Err == nil && d.Root != nil
}

// Views bundles the three documents of one robot.
type Views struct {
	MateValues Document
	Features   Document
	Assembly   Document
}

// Get returns the document for the given view kind.
func (v *Views) Get(k ViewKind) Document {
	switch k {
	case ViewMateValues:
		return v.MateValues
	case ViewFeatures:
		return v.Features
	default:
		return v.Assembly
	}
}

// visitFunc receives the map holding an in-scope identifier and the field
// name under which the identifier is stored. Mutating entry[field] renames
// the occurrence in place.
type visitFunc func(entry map[string]any, field string)

// forEachOccurrence walks one view's in-scope identifier occurrences in
// document order, dispatching on the view kind's extraction rule. A missing
// container yields zero occurrences; a container of the wrong type is an
// ErrUnexpectedShape.
func forEachOccurrence(kind ViewKind, root map[string]any, visit visitFunc) error {
	switch kind {
	case ViewMateValues:
		return visitMateValues(root, visit)
	case ViewFeatures:
		return visitFeatures(root, visit)
	case ViewAssembly:
		return visitAssembly(root, visit)
	default:
		return fmt.Errorf("%w: unknown view kind %d", ErrUnexpectedShape, int(kind))
	}
}

func visitMateValues(root map[string]any, visit visitFunc) error {
	raw, ok := root["mateValues"]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("%w: mateValues is %T, want array", ErrUnexpectedShape, raw)
	}
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if _, ok := entry["mateName"].(string); ok {
			visit(entry, "mateName")
		}
	}
	return nil
}

func visitFeatures(root map[string]any, visit visitFunc) error {
	raw, ok := root["features"]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("%w: features is %T, want array", ErrUnexpectedShape, raw)
	}
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		message, ok := entry["message"].(map[string]any)
		if !ok {
			continue
		}
		if ft, _ := message["featureType"].(string); ft != "mate" {
			continue
		}
		name, ok := message["name"].(string)
		if !ok || name == excludedFeatureName {
			continue
		}
		visit(message, "name")
	}
	return nil
}

func visitAssembly(root map[string]any, visit visitFunc) error {
	rootAssembly, ok := root["rootAssembly"]
	if !ok {
		return nil
	}
	ra, ok := rootAssembly.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: rootAssembly is %T, want object", ErrUnexpectedShape, rootAssembly)
	}
	raw, ok := ra["features"]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("%w: rootAssembly.features is %T, want array", ErrUnexpectedShape, raw)
	}
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		fd, ok := entry["featureData"].(map[string]any)
		if !ok {
			continue
		}
		name, ok := fd["name"].(string)
		if !ok {
			continue
		}
		if !strings.HasPrefix(name, dofPrefix) && name != legacyAssemblyName {
			continue
		}
		visit(fd, "name")
	}
	return nil
}
