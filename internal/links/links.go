// Package links detects and removes structurally duplicate links in a robot
// kinematic graph. Two links are duplicates when they reference the same
// meshes with the same placements and the same appearance colors; the name
// and mass are deliberately excluded from the comparison. The Onshape
// exporter emits one link per part instance, so identical parts mated into
// an assembly several times show up as N copies of the same link.
package links

import (
	"fmt"
	"sort"
	"strings"
)

// Link is one graph node, already reduced to the fields the engine compares.
type Link struct {
	Name string

	// Meshes holds mesh file base names from visual and collision entries,
	// sorted and deduplicated.
	Meshes []string

	// Origins holds (xyz, rpy) placement pairs per visual entry, in document
	// order. A visual without an origin contributes the zero placement.
	Origins []Origin

	// Materials holds RGBA color strings, sorted.
	Materials []string

	// Mass is the inertial mass value when present. Not part of the
	// structural comparison.
	Mass string
}

// Origin is one placement pair as the document spells it.
type Origin struct {
	XYZ string
	RPY string
}

// Joint is one graph edge: a named connection from a parent link to a child
// link.
type Joint struct {
	Name   string
	Type   string
	Parent string
	Child  string
}

// Describe renders the joint for audit output.
func (j Joint) Describe() string {
	return fmt.Sprintf("joint %s (type=%s parent=%s child=%s)", j.Name, j.Type, j.Parent, j.Child)
}

// Graph is the node-arena + edge-list representation of the kinematic graph.
// The index maps link names to positions in Links, so a dangling joint
// endpoint is a failed lookup rather than a traversal accident.
type Graph struct {
	Links  []Link
	Joints []Joint

	index map[string]int
}

// NewGraph builds a graph over the given links and joints and indexes the
// link names.
func NewGraph(links []Link, joints []Joint) *Graph {
	g := &Graph{Links: links, Joints: joints}
	g.reindex()
	return g
}

func (g *Graph) reindex() {
	g.index = make(map[string]int, len(g.Links))
	for i, l := range g.Links {
		g.index[l.Name] = i
	}
}

// HasLink reports whether a link with the given name exists.
func (g *Graph) HasLink(name string) bool {
	_, ok := g.index[name]
	return ok
}

// DanglingJoints returns every joint naming a link that does not exist.
// A well-formed graph returns none; the engine's postcondition is that this
// stays empty across mutations.
func (g *Graph) DanglingJoints() []Joint {
	var bad []Joint
	for _, j := range g.Joints {
		if !g.HasLink(j.Parent) || !g.HasLink(j.Child) {
			bad = append(bad, j)
		}
	}
	return bad
}

// Fingerprint is the structural identity of a link: meshes, placements, and
// colors, excluding name and mass. Links with equal fingerprints are
// duplicates.
type Fingerprint string

// FingerprintOf derives the link's structural fingerprint. Links with no
// mesh references are ineligible (ok=false) and excluded from duplicate
// grouping; a mesh-less link is typically a frame or purely inertial node
// and removing one of those is never safe to automate.
func FingerprintOf(l Link) (Fingerprint, bool) {
	if len(l.Meshes) == 0 {
		return "", false
	}
	var b strings.Builder
	b.WriteString("meshes:")
	b.WriteString(strings.Join(l.Meshes, "|"))
	b.WriteString(";origins:")
	for _, o := range l.Origins {
		fmt.Fprintf(&b, "(%s/%s)", o.XYZ, o.RPY)
	}
	b.WriteString(";materials:")
	b.WriteString(strings.Join(l.Materials, "|"))
	return Fingerprint(b.String()), true
}

// Group is one set of structurally identical links. Members keep the order
// the links were encountered in the graph's node sequence; the first member
// is the representative that survives removal.
type Group struct {
	Fingerprint Fingerprint
	Members     []string
}

// Representative returns the kept member.
func (g Group) Representative() string {
	return g.Members[0]
}

// Doomed returns the members slated for removal (all but the first).
func (g Group) Doomed() []string {
	return g.Members[1:]
}

// FindDuplicateGroups groups eligible links by fingerprint and returns every
// group with two or more members. Group order and member order follow first
// encounter in the link sequence, never map iteration, so the "first wins"
// representative choice is reproducible.
func FindDuplicateGroups(g *Graph) []Group {
	byFP := make(map[Fingerprint]int)
	var groups []Group

	for _, l := range g.Links {
		fp, ok := FingerprintOf(l)
		if !ok {
			continue
		}
		if idx, seen := byFP[fp]; seen {
			groups[idx].Members = append(groups[idx].Members, l.Name)
			continue
		}
		byFP[fp] = len(groups)
		groups = append(groups, Group{Fingerprint: fp, Members: []string{l.Name}})
	}

	var dups []Group
	for _, grp := range groups {
		if len(grp.Members) >= 2 {
			dups = append(dups, grp)
		}
	}
	return dups
}

// ComputeRemovalSet collects every group member except each group's
// representative.
func ComputeRemovalSet(groups []Group) map[string]struct{} {
	removal := make(map[string]struct{})
	for _, g := range groups {
		for _, name := range g.Doomed() {
			removal[name] = struct{}{}
		}
	}
	return removal
}

// RemovalSetFromNames builds a removal set from an explicit name list. This
// is the escape hatch for when the automated first-wins choice is not the
// intended survivor.
func RemovalSetFromNames(names []string) map[string]struct{} {
	removal := make(map[string]struct{}, len(names))
	for _, n := range names {
		removal[n] = struct{}{}
	}
	return removal
}

// SortedNames returns the removal set as a sorted slice for reporting.
func SortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
