package robot

import (
	"fmt"
	"strings"

	"robomend/internal/links"
	"robomend/internal/mates"
)

// MateAnalysis renders the universe and its diagnostics the way the export
// pipeline's logs present them: per-view instance counts, the distinct name
// roster with multiplicities, and any consistency issues.
func MateAnalysis(u *mates.NameUniverse, diags []mates.Inconsistency) string {
	var b strings.Builder
	b.WriteString("MATE ANALYSIS\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")

	for _, k := range mates.AllViews {
		fmt.Fprintf(&b, "%s: %d mate instances (%d unique)\n",
			k.FileName(), len(u.Occurrences[k]), len(u.Counts[k]))
	}

	names := u.Union()
	fmt.Fprintf(&b, "\nTotal unique mate names across all files: %d\n", len(names))
	for i, name := range names {
		countInfo := ""
		if max := u.MaxCount(name); max > 1 {
			countInfo = fmt.Sprintf(" (appears %dx)", max)
		}
		fmt.Fprintf(&b, "%2d. %s%s\n", i+1, name, countInfo)
	}

	withPrefix := 0
	for _, name := range names {
		if strings.HasPrefix(name, "dof_") {
			withPrefix++
		}
	}
	fmt.Fprintf(&b, "\nNaming: %d/%d names carry the dof_ prefix\n", withPrefix, len(names))

	if len(diags) == 0 {
		b.WriteString("\nAll mate names and counts are consistent across files.")
		return b.String()
	}

	fmt.Fprintf(&b, "\nIssues found (%d):\n", len(diags))
	for _, d := range diags {
		fmt.Fprintf(&b, "  - %s\n", d)
	}
	return strings.TrimRight(b.String(), "\n")
}

// DuplicateGroups renders the duplicate link groups with the kept
// representative first.
func DuplicateGroups(groups []links.Group) string {
	if len(groups) == 0 {
		return "No duplicate links found in the URDF file."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d groups of duplicate links:\n", len(groups))
	totalToRemove := 0
	for i, g := range groups {
		doomed := g.Doomed()
		totalToRemove += len(doomed)
		fmt.Fprintf(&b, "  Group %d: keep %q, remove %d duplicates: %s\n",
			i, g.Representative(), len(doomed), strings.Join(doomed, ", "))
	}
	fmt.Fprintf(&b, "Total links to remove: %d", totalToRemove)
	return b.String()
}

// RemovalSummary renders what a removal touched.
func RemovalSummary(robotName string, report *links.RemovalReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "DUPLICATE LINK REMOVAL COMPLETED (op %s)\n", report.OperationID)
	b.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(&b, "Robot: %s\n", robotName)
	fmt.Fprintf(&b, "Removed %d links:\n", report.RemovedCount())
	for _, name := range report.RemovedLinks {
		fmt.Fprintf(&b, "  - %s\n", name)
	}
	fmt.Fprintf(&b, "Removed %d joints referencing them:\n", len(report.RemovedJoints))
	for _, desc := range report.RemovedJoints {
		fmt.Fprintf(&b, "  - %s\n", desc)
	}
	return strings.TrimRight(b.String(), "\n")
}
