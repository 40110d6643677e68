package urdf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/beevik/etree"
)

// Summary renders a high-level robot overview: counts, joint type
// histogram, and the link/joint name rosters.
func Summary(d *Document) string {
	linkEls := d.LinkElements()
	jointEls := d.JointElements()

	jointTypes := make(map[string]int)
	jointNames := make([]string, 0, len(jointEls))
	for _, el := range jointEls {
		jointTypes[el.SelectAttrValue("type", "unknown")]++
		jointNames = append(jointNames, el.SelectAttrValue("name", "unnamed"))
	}

	linkNames := make([]string, 0, len(linkEls))
	for _, el := range linkEls {
		linkNames = append(linkNames, el.SelectAttrValue("name", "unnamed"))
	}

	meshes := make(map[string]struct{})
	for _, el := range d.tree.FindElements("//mesh") {
		if f := el.SelectAttrValue("filename", ""); f != "" {
			meshes[f] = struct{}{}
		}
	}

	typeNames := make([]string, 0, len(jointTypes))
	for t := range jointTypes {
		typeNames = append(typeNames, t)
	}
	sort.Strings(typeNames)
	typeParts := make([]string, 0, len(typeNames))
	for _, t := range typeNames {
		typeParts = append(typeParts, fmt.Sprintf("%s:%d", t, jointTypes[t]))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ROBOT SUMMARY: %s\n", d.RobotName())
	b.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(&b, "Links: %d\n", len(linkEls))
	fmt.Fprintf(&b, "Joints: %d - %s\n", len(jointEls), strings.Join(typeParts, ", "))
	fmt.Fprintf(&b, "Materials: %d\n", len(d.tree.FindElements("//material")))
	fmt.Fprintf(&b, "Mesh files: %d\n\n", len(meshes))
	b.WriteString("Link names:\n" + strings.Join(linkNames, ", ") + "\n\n")
	b.WriteString("Joint names:\n" + strings.Join(jointNames, ", "))
	return b.String()
}

// LinksReport renders every link with visual/collision geometry, materials,
// and mass, compact enough to hand to a caller that reasons over text.
func LinksReport(d *Document) string {
	linkEls := d.LinkElements()

	var b strings.Builder
	fmt.Fprintf(&b, "ROBOT LINKS (%d total):\n", len(linkEls))
	b.WriteString(strings.Repeat("=", 50))

	for _, el := range linkEls {
		fmt.Fprintf(&b, "\n\nLINK: %s", el.SelectAttrValue("name", "unnamed"))

		visuals := el.SelectElements("visual")
		for i, visual := range visuals {
			suffix := ""
			if len(visuals) > 1 {
				suffix = fmt.Sprintf(" (visual %d)", i+1)
			}
			fmt.Fprintf(&b, "\n  Visual%s:", suffix)
			writeEntryDetails(&b, visual)

			if mat := visual.SelectElement("material"); mat != nil {
				name := mat.SelectAttrValue("name", "unnamed")
				if color := mat.SelectElement("color"); color != nil {
					fmt.Fprintf(&b, "\n    Material: %s, color=%s", name, color.SelectAttrValue("rgba", "unknown"))
				} else {
					fmt.Fprintf(&b, "\n    Material: %s", name)
				}
			}
		}

		collisions := el.SelectElements("collision")
		for i, collision := range collisions {
			suffix := ""
			if len(collisions) > 1 {
				suffix = fmt.Sprintf(" (collision %d)", i+1)
			}
			fmt.Fprintf(&b, "\n  Collision%s:", suffix)
			writeEntryDetails(&b, collision)
		}

		if inertial := el.SelectElement("inertial"); inertial != nil {
			if mass := inertial.SelectElement("mass"); mass != nil {
				fmt.Fprintf(&b, "\n  Mass: %s", mass.SelectAttrValue("value", "unknown"))
			}
		}
	}
	return b.String()
}

// writeEntryDetails renders origin and geometry for a visual or collision
// entry.
func writeEntryDetails(b *strings.Builder, entry *etree.Element) {
	if origin := entry.SelectElement("origin"); origin != nil {
		fmt.Fprintf(b, "\n    Origin: xyz=%s, rpy=%s",
			origin.SelectAttrValue("xyz", zeroTriple), origin.SelectAttrValue("rpy", zeroTriple))
	}
	geom := entry.SelectElement("geometry")
	if geom == nil {
		return
	}
	if mesh := geom.SelectElement("mesh"); mesh != nil {
		line := fmt.Sprintf("\n    Mesh: %s", mesh.SelectAttrValue("filename", "unknown"))
		if scale := mesh.SelectAttrValue("scale", "1 1 1"); scale != "1 1 1" {
			line += fmt.Sprintf(", scale=%s", scale)
		}
		b.WriteString(line)
	}
	if box := geom.SelectElement("box"); box != nil {
		fmt.Fprintf(b, "\n    Box: size=%s", box.SelectAttrValue("size", "unknown"))
	}
	if cyl := geom.SelectElement("cylinder"); cyl != nil {
		fmt.Fprintf(b, "\n    Cylinder: radius=%s, length=%s",
			cyl.SelectAttrValue("radius", "unknown"), cyl.SelectAttrValue("length", "unknown"))
	}
	if sphere := geom.SelectElement("sphere"); sphere != nil {
		fmt.Fprintf(b, "\n    Sphere: radius=%s", sphere.SelectAttrValue("radius", "unknown"))
	}
}

// JointsReport renders every joint with its connection, origin, axis, and
// limits.
func JointsReport(d *Document) string {
	jointEls := d.JointElements()

	var b strings.Builder
	fmt.Fprintf(&b, "ROBOT JOINTS (%d total):\n", len(jointEls))
	b.WriteString(strings.Repeat("=", 50))

	for _, el := range jointEls {
		fmt.Fprintf(&b, "\n\nJOINT: %s (type: %s)",
			el.SelectAttrValue("name", "unnamed"), el.SelectAttrValue("type", "unknown"))

		parent := el.SelectElement("parent")
		child := el.SelectElement("child")
		if parent != nil && child != nil {
			fmt.Fprintf(&b, "\n  Connection: %s -> %s",
				parent.SelectAttrValue("link", "unknown"), child.SelectAttrValue("link", "unknown"))
		}

		if origin := el.SelectElement("origin"); origin != nil {
			fmt.Fprintf(&b, "\n  Origin: xyz=%s, rpy=%s",
				origin.SelectAttrValue("xyz", zeroTriple), origin.SelectAttrValue("rpy", zeroTriple))
		}

		if axis := el.SelectElement("axis"); axis != nil {
			fmt.Fprintf(&b, "\n  Axis: %s", axis.SelectAttrValue("xyz", "unknown"))
		}

		if limit := el.SelectElement("limit"); limit != nil {
			fmt.Fprintf(&b, "\n  Limits: lower=%s, upper=%s, effort=%s, velocity=%s",
				limit.SelectAttrValue("lower", "none"), limit.SelectAttrValue("upper", "none"),
				limit.SelectAttrValue("effort", "none"), limit.SelectAttrValue("velocity", "none"))
		}
	}
	return b.String()
}
