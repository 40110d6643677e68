package urdf

import (
	"sort"
	"strings"

	"github.com/beevik/etree"

	"robomend/internal/links"
)

const zeroTriple = "0 0 0"

// ExtractGraph reduces the document to the node-arena graph the links engine
// operates on. Mesh file names are stripped to their base name so that
// package-path differences do not defeat duplicate detection.
func ExtractGraph(d *Document) *links.Graph {
	linkEls := d.LinkElements()
	nodes := make([]links.Link, 0, len(linkEls))
	for _, el := range linkEls {
		nodes = append(nodes, extractLink(el))
	}

	jointEls := d.JointElements()
	joints := make([]links.Joint, 0, len(jointEls))
	for _, el := range jointEls {
		joints = append(joints, extractJoint(el))
	}

	return links.NewGraph(nodes, joints)
}

func extractLink(el *etree.Element) links.Link {
	l := links.Link{Name: el.SelectAttrValue("name", "unnamed")}

	hasMesh := func(name string) bool {
		for _, m := range l.Meshes {
			if m == name {
				return true
			}
		}
		return false
	}

	for _, visual := range el.SelectElements("visual") {
		origin := links.Origin{XYZ: zeroTriple, RPY: zeroTriple}
		if o := visual.SelectElement("origin"); o != nil {
			origin.XYZ = o.SelectAttrValue("xyz", zeroTriple)
			origin.RPY = o.SelectAttrValue("rpy", zeroTriple)
		}
		l.Origins = append(l.Origins, origin)

		if geom := visual.SelectElement("geometry"); geom != nil {
			if mesh := geom.SelectElement("mesh"); mesh != nil {
				if filename := mesh.SelectAttrValue("filename", ""); filename != "" {
					l.Meshes = append(l.Meshes, meshBaseName(filename))
				}
			}
		}

		if mat := visual.SelectElement("material"); mat != nil {
			if color := mat.SelectElement("color"); color != nil {
				if rgba := color.SelectAttrValue("rgba", ""); rgba != "" {
					l.Materials = append(l.Materials, rgba)
				}
			}
		}
	}

	// Collision meshes count too, but only when they add a file the visual
	// entries did not already reference.
	for _, collision := range el.SelectElements("collision") {
		if geom := collision.SelectElement("geometry"); geom != nil {
			if mesh := geom.SelectElement("mesh"); mesh != nil {
				if filename := mesh.SelectAttrValue("filename", ""); filename != "" {
					if name := meshBaseName(filename); !hasMesh(name) {
						l.Meshes = append(l.Meshes, name)
					}
				}
			}
		}
	}

	if inertial := el.SelectElement("inertial"); inertial != nil {
		if mass := inertial.SelectElement("mass"); mass != nil {
			l.Mass = mass.SelectAttrValue("value", "")
		}
	}

	sort.Strings(l.Meshes)
	sort.Strings(l.Materials)
	return l
}

func extractJoint(el *etree.Element) links.Joint {
	j := links.Joint{
		Name: el.SelectAttrValue("name", "unnamed"),
		Type: el.SelectAttrValue("type", "unknown"),
	}
	if parent := el.SelectElement("parent"); parent != nil {
		j.Parent = parent.SelectAttrValue("link", "")
	}
	if child := el.SelectElement("child"); child != nil {
		j.Child = child.SelectAttrValue("link", "")
	}
	return j
}

// meshBaseName strips any package path from a mesh filename.
func meshBaseName(filename string) string {
	if i := strings.LastIndex(filename, "/"); i >= 0 {
		return filename[i+1:]
	}
	return filename
}

// ApplyRemoval deletes the link elements named in the removal set and every
// joint element whose parent or child is in the set. The document mirrors
// the repair the links engine performed on the extracted graph.
func ApplyRemoval(d *Document, removal map[string]struct{}) (removedLinks, removedJoints int) {
	robot := d.robot()

	for _, el := range d.LinkElements() {
		if _, gone := removal[el.SelectAttrValue("name", "")]; gone {
			robot.RemoveChild(el)
			removedLinks++
		}
	}

	for _, el := range d.JointElements() {
		j := extractJoint(el)
		_, parentGone := removal[j.Parent]
		_, childGone := removal[j.Child]
		if parentGone || childGone {
			robot.RemoveChild(el)
			removedJoints++
		}
	}
	return removedLinks, removedJoints
}
