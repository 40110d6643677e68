package mates

import (
	"fmt"
	"sort"
	"strings"

	"robomend/internal/logging"
)

// Occurrence is one in-scope identifier occurrence within a view, in
// document order. Index is the position within the view's occurrence list;
// duplicate names keep their multiplicity.
type Occurrence struct {
	View  ViewKind
	Index int
	Name  string
}

// NameUniverse is the extraction result: every occurrence per view plus
// per-view name counts. The union of distinct names across views is the
// universe a rename map is validated against.
type NameUniverse struct {
	Occurrences map[ViewKind][]Occurrence
	Counts      map[ViewKind]map[string]int
}

// Union returns the sorted distinct identifiers observed in any view.
func (u *NameUniverse) Union() []string {
	seen := make(map[string]struct{})
	for _, counts := range u.Counts {
		for name := range counts {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the identifier exists in any view.
func (u *NameUniverse) Has(name string) bool {
	for _, counts := range u.Counts {
		if counts[name] > 0 {
			return true
		}
	}
	return false
}

// CountIn returns the occurrence count of name in the given view.
func (u *NameUniverse) CountIn(k ViewKind, name string) int {
	return u.Counts[k][name]
}

// MaxCount returns the highest per-view occurrence count for name. The
// original exporter treats this as "instances" of a mate when views agree.
func (u *NameUniverse) MaxCount(name string) int {
	max := 0
	for _, k := range AllViews {
		if c := u.Counts[k][name]; c > max {
			max = c
		}
	}
	return max
}

// InconsistencyKind classifies a universe diagnostic. All diagnostics are
// advisory; none block a rename.
type InconsistencyKind int

const (
	// ViewUnavailable: a view document could not be loaded.
	ViewUnavailable InconsistencyKind = iota

	// IntraViewDuplicate: an identifier occurs more than once within one
	// view. Legal but fragile; renames hit every occurrence.
	IntraViewDuplicate

	// CrossViewAbsence: an identifier is missing from one or more views.
	CrossViewAbsence

	// CountMismatch: per-view occurrence counts disagree.
	CountMismatch
)

func (k InconsistencyKind) String() string {
	switch k {
	case ViewUnavailable:
		return "view-unavailable"
	case IntraViewDuplicate:
		return "intra-view-duplicate"
	case CrossViewAbsence:
		return "cross-view-absence"
	case CountMismatch:
		return "count-mismatch"
	default:
		return "unknown"
	}
}

// Inconsistency is one advisory diagnostic about the name universe.
type Inconsistency struct {
	Kind   InconsistencyKind
	View   ViewKind // ViewUnavailable, IntraViewDuplicate
	Name   string   // empty for ViewUnavailable
	Counts [3]int   // per-view counts, indexed by ViewKind
	Detail string
}

func (i Inconsistency) String() string {
	switch i.Kind {
	case ViewUnavailable:
		return fmt.Sprintf("%s: %s (%s)", i.Kind, i.View, i.Detail)
	case IntraViewDuplicate:
		return fmt.Sprintf("%s: %q appears %d times in %s", i.Kind, i.Name, i.Counts[i.View], i.View)
	case CrossViewAbsence:
		return fmt.Sprintf("%s: %q missing from %s", i.Kind, i.Name, i.Detail)
	default:
		return fmt.Sprintf("%s: %q matevalues=%d features=%d assembly=%d",
			i.Kind, i.Name, i.Counts[ViewMateValues], i.Counts[ViewFeatures], i.Counts[ViewAssembly])
	}
}

// Extract walks all three views and builds the name universe. Views that
// failed to load, or whose containers have a shape the extraction rules
// cannot walk, are reported as ViewUnavailable diagnostics; extraction
// fails only when no view at all is usable. No side effects.
func Extract(views *Views) (*NameUniverse, []Inconsistency, error) {
	timer := logging.StartTimer(logging.CategoryMates, "Extract")
	defer timer.Stop()

	u := &NameUniverse{
		Occurrences: make(map[ViewKind][]Occurrence),
		Counts:      make(map[ViewKind]map[string]int),
	}
	var diags []Inconsistency

	loaded := 0
	for _, k := range AllViews {
		u.Counts[k] = make(map[string]int)
		doc := views.Get(k)
		if !doc.Available() {
			detail := "document missing"
			if doc.Err != nil {
				detail = doc.Err.Error()
			}
			diags = append(diags, Inconsistency{Kind: ViewUnavailable, View: k, Detail: detail})
			continue
		}

		kind := k
		err := forEachOccurrence(kind, doc.Root, func(entry map[string]any, field string) {
			name := entry[field].(string)
			u.Occurrences[kind] = append(u.Occurrences[kind], Occurrence{
				View:  kind,
				Index: len(u.Occurrences[kind]),
				Name:  name,
			})
			u.Counts[kind][name]++
		})
		if err != nil {
			// A malformed container degrades the view, same as a failed
			// load. Apply keeps treating this shape as fatal.
			logging.Mates("view %s unusable: %v", kind, err)
			delete(u.Occurrences, kind)
			u.Counts[kind] = make(map[string]int)
			diags = append(diags, Inconsistency{Kind: ViewUnavailable, View: kind, Detail: err.Error()})
			continue
		}
		loaded++
		logging.MatesDebug("extracted %d occurrences (%d unique) from %s view",
			len(u.Occurrences[kind]), len(u.Counts[kind]), kind)
	}

	if loaded == 0 {
		return nil, nil, ErrNoDocumentsLoaded
	}
	return u, diags, nil
}

// Diagnose compares per-view counts for every distinct identifier and
// reports intra-view duplication, cross-view absence, and count mismatches.
// Diagnostics never block a rename.
func Diagnose(u *NameUniverse) []Inconsistency {
	var diags []Inconsistency

	for _, name := range u.Union() {
		var counts [3]int
		for _, k := range AllViews {
			counts[k] = u.Counts[k][name]
		}

		for _, k := range AllViews {
			if counts[k] > 1 {
				diags = append(diags, Inconsistency{
					Kind:   IntraViewDuplicate,
					View:   k,
					Name:   name,
					Counts: counts,
				})
			}
		}

		var missing []string
		for _, k := range AllViews {
			if counts[k] == 0 {
				missing = append(missing, k.String())
			}
		}
		if len(missing) > 0 {
			diags = append(diags, Inconsistency{
				Kind:   CrossViewAbsence,
				Name:   name,
				Counts: counts,
				Detail: strings.Join(missing, ", "),
			})
		}

		if counts[ViewMateValues] != counts[ViewFeatures] ||
			counts[ViewFeatures] != counts[ViewAssembly] {
			diags = append(diags, Inconsistency{
				Kind:   CountMismatch,
				Name:   name,
				Counts: counts,
			})
		}
	}
	return diags
}
