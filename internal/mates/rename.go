package mates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"robomend/internal/logging"
)

// RenameMap maps old identifier to new identifier. Keys are unique by
// construction; values may collide, which merges identifiers downstream and
// is accepted, not rejected.
type RenameMap map[string]string

// SortedKeys returns the old names in sorted order for stable reporting.
func (m RenameMap) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ChangeReport records what a rename actually touched: per view, per old
// name, the number of occurrences replaced. Zero counts are kept so callers
// can tell "validated but nothing live matched" apart from a no-op request.
type ChangeReport struct {
	OperationID string
	Counts      map[ViewKind]map[string]int
}

// CountFor returns the replacements of oldName in the given view.
func (r *ChangeReport) CountFor(k ViewKind, oldName string) int {
	return r.Counts[k][oldName]
}

// ViewTotal returns the total replacements in one view.
func (r *ChangeReport) ViewTotal(k ViewKind) int {
	total := 0
	for _, c := range r.Counts[k] {
		total += c
	}
	return total
}

// Total returns the total replacements across all views.
func (r *ChangeReport) Total() int {
	total := 0
	for _, k := range AllViews {
		total += r.ViewTotal(k)
	}
	return total
}

// Summary renders the report in the converter's log style.
func (r *ChangeReport) Summary(renames RenameMap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "MATE RENAME OPERATION COMPLETED (op %s)\n", r.OperationID)
	b.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(&b, "Renamed %d mate names (%d total instances)\n\n", len(renames), r.Total())
	b.WriteString("Changes made:\n")
	for _, oldName := range renames.SortedKeys() {
		fmt.Fprintf(&b, "  %q -> %q:\n", oldName, renames[oldName])
		for _, k := range AllViews {
			fmt.Fprintf(&b, "    %s: %d instances\n", k, r.CountFor(k, oldName))
		}
	}
	return b.String()
}

// Validate checks every rename key against the observed name universe. It is
// the sole hard precondition for Apply; a key outside the universe fails the
// whole request before anything is mutated.
func Validate(u *NameUniverse, renames RenameMap) error {
	if len(renames) == 0 {
		return ErrEmptyRenameMap
	}
	var unknown []string
	for old := range renames {
		if !u.Has(old) {
			unknown = append(unknown, old)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &UnknownIdentifierError{Names: unknown}
	}
	return nil
}

// edit records one in-place field replacement so it can be undone.
type edit struct {
	entry map[string]any
	field string
	old   string
}

// Apply replaces every in-scope occurrence whose identifier is a rename key,
// across all three views, and reports per-view per-name counts. The
// operation is all-or-nothing over the in-memory documents: if a later view
// has an unexpected shape, edits already applied to earlier views are
// reverted before the error is returned. Callers never observe a partially
// renamed set of views.
//
// Validation against the universe is the caller's responsibility (Validate);
// Apply itself only guards against structural surprises.
func Apply(views *Views, renames RenameMap) (*ChangeReport, error) {
	timer := logging.StartTimer(logging.CategoryMates, "Apply")
	defer timer.Stop()

	if len(renames) == 0 {
		return nil, ErrEmptyRenameMap
	}

	report := &ChangeReport{
		OperationID: uuid.NewString(),
		Counts:      make(map[ViewKind]map[string]int),
	}
	for _, k := range AllViews {
		report.Counts[k] = make(map[string]int)
	}

	var undo []edit
	rollback := func() {
		for i := len(undo) - 1; i >= 0; i-- {
			e := undo[i]
			e.entry[e.field] = e.old
		}
	}

	for _, k := range AllViews {
		doc := views.Get(k)
		if !doc.Available() {
			continue
		}
		kind := k
		err := forEachOccurrence(kind, doc.Root, func(entry map[string]any, field string) {
			old := entry[field].(string)
			newName, ok := renames[old]
			if !ok {
				return
			}
			undo = append(undo, edit{entry: entry, field: field, old: old})
			entry[field] = newName
			report.Counts[kind][old]++
		})
		if err != nil {
			rollback()
			logging.Mates("rename %s rolled back: %v", report.OperationID, err)
			return nil, fmt.Errorf("%w: %s view: %v", ErrPartialApply, kind, err)
		}
	}

	logging.Mates("rename %s applied: %d instances across %d names",
		report.OperationID, report.Total(), len(renames))
	return report, nil
}

// PrependDOFMap builds a rename map giving every universe name the dof_
// prefix it lacks. Names already carrying the prefix are left alone.
func PrependDOFMap(u *NameUniverse) RenameMap {
	m := make(RenameMap)
	for _, name := range u.Union() {
		if !strings.HasPrefix(name, dofPrefix) {
			m[name] = dofPrefix + name
		}
	}
	return m
}
