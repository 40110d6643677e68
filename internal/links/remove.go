package links

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"robomend/internal/logging"
)

// ErrDanglingJoint signals a violated postcondition: after removal and
// repair, a surviving joint still names a missing link. This is an
// implementation bug guard, not an expected runtime condition.
var ErrDanglingJoint = errors.New("surviving joint references a removed link")

// RemovalReport records what a removal touched.
type RemovalReport struct {
	OperationID string

	// RemovedLinks lists the removed link names in graph order.
	RemovedLinks []string

	// RemovedJoints describes every joint dropped because an endpoint was
	// removed. Joints are never re-pointed to a survivor; an edge whose
	// endpoint vanished is itself invalid.
	RemovedJoints []string
}

// RemovedCount returns the number of links removed.
func (r *RemovalReport) RemovedCount() int {
	return len(r.RemovedLinks)
}

// RemoveAndRepair removes every link whose name is in the removal set and
// drops every joint that references a removed link. The joint repair and the
// link removal form one transaction over the in-memory graph; the graph is
// re-checked for dangling joints before it is considered settled.
func RemoveAndRepair(g *Graph, removal map[string]struct{}) (*RemovalReport, error) {
	timer := logging.StartTimer(logging.CategoryLinks, "RemoveAndRepair")
	defer timer.Stop()

	report := &RemovalReport{OperationID: uuid.NewString()}

	keptJoints := g.Joints[:0:0]
	for _, j := range g.Joints {
		_, parentGone := removal[j.Parent]
		_, childGone := removal[j.Child]
		if parentGone || childGone {
			report.RemovedJoints = append(report.RemovedJoints, j.Describe())
			continue
		}
		keptJoints = append(keptJoints, j)
	}

	keptLinks := g.Links[:0:0]
	for _, l := range g.Links {
		if _, gone := removal[l.Name]; gone {
			report.RemovedLinks = append(report.RemovedLinks, l.Name)
			continue
		}
		keptLinks = append(keptLinks, l)
	}

	g.Joints = keptJoints
	g.Links = keptLinks
	g.reindex()

	if bad := g.DanglingJoints(); len(bad) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDanglingJoint, bad[0].Describe())
	}

	logging.Links("removal %s: %d links, %d joints dropped",
		report.OperationID, len(report.RemovedLinks), len(report.RemovedJoints))
	return report, nil
}
