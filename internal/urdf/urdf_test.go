package urdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robomend/internal/links"
)

const testURDF = `<?xml version="1.0" ?>
<robot name="testbot">
  <link name="base">
    <visual>
      <origin xyz="0 0 0.05" rpy="0 0 0"/>
      <geometry>
        <mesh filename="package://testbot/meshes/base.stl"/>
      </geometry>
      <material name="grey">
        <color rgba="0.5 0.5 0.5 1.0"/>
      </material>
    </visual>
    <collision>
      <geometry>
        <mesh filename="package://testbot/meshes/base_collision.stl"/>
      </geometry>
    </collision>
    <inertial>
      <mass value="2.5"/>
    </inertial>
  </link>
  <link name="wheel_1">
    <visual>
      <geometry>
        <mesh filename="package://testbot/meshes/wheel.stl"/>
      </geometry>
      <material name="black">
        <color rgba="0.1 0.1 0.1 1.0"/>
      </material>
    </visual>
  </link>
  <link name="wheel_2">
    <visual>
      <geometry>
        <mesh filename="package://testbot/meshes/wheel.stl"/>
      </geometry>
      <material name="black">
        <color rgba="0.1 0.1 0.1 1.0"/>
      </material>
    </visual>
  </link>
  <link name="imu_frame"/>
  <joint name="j_wheel_1" type="continuous">
    <parent link="base"/>
    <child link="wheel_1"/>
    <axis xyz="0 1 0"/>
  </joint>
  <joint name="j_wheel_2" type="continuous">
    <parent link="base"/>
    <child link="wheel_2"/>
    <axis xyz="0 1 0"/>
  </joint>
  <joint name="j_imu" type="fixed">
    <parent link="base"/>
    <child link="imu_frame"/>
  </joint>
</robot>
`

func parseTest(t *testing.T) *Document {
	t.Helper()
	d, err := ParseBytes([]byte(testURDF))
	require.NoError(t, err)
	return d
}

func TestParseBytes(t *testing.T) {
	d := parseTest(t)
	assert.Equal(t, "testbot", d.RobotName())
	assert.Len(t, d.LinkElements(), 4)
	assert.Len(t, d.JointElements(), 3)
}

func TestParseBytesNoRobot(t *testing.T) {
	_, err := ParseBytes([]byte(`<?xml version="1.0"?><model name="x"/>`))
	assert.ErrorIs(t, err, ErrNoRobotElement)
}

func TestParseFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "robot.urdf")
	require.NoError(t, os.WriteFile(path, []byte(testURDF), 0644))

	d, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, d.Path())

	out := filepath.Join(dir, "out.urdf")
	require.NoError(t, d.WriteFile(out))

	again, err := ParseFile(out)
	require.NoError(t, err)
	assert.Equal(t, "testbot", again.RobotName())
	assert.Len(t, again.LinkElements(), 4)
	assert.Len(t, again.JointElements(), 3)
}

func TestExtractGraph(t *testing.T) {
	g := ExtractGraph(parseTest(t))

	require.Len(t, g.Links, 4)
	require.Len(t, g.Joints, 3)

	base := g.Links[0]
	assert.Equal(t, "base", base.Name)
	// Mesh paths are stripped to base names; the collision mesh is distinct
	// so it joins the visual one.
	assert.Equal(t, []string{"base.stl", "base_collision.stl"}, base.Meshes)
	assert.Equal(t, []links.Origin{{XYZ: "0 0 0.05", RPY: "0 0 0"}}, base.Origins)
	assert.Equal(t, []string{"0.5 0.5 0.5 1.0"}, base.Materials)
	assert.Equal(t, "2.5", base.Mass)

	wheel := g.Links[1]
	// No explicit origin means the zero placement.
	assert.Equal(t, []links.Origin{{XYZ: "0 0 0", RPY: "0 0 0"}}, wheel.Origins)
	assert.Empty(t, wheel.Mass)

	frame := g.Links[3]
	assert.Equal(t, "imu_frame", frame.Name)
	assert.Empty(t, frame.Meshes)

	assert.Equal(t, links.Joint{Name: "j_wheel_1", Type: "continuous", Parent: "base", Child: "wheel_1"}, g.Joints[0])
	assert.Empty(t, g.DanglingJoints())
}

func TestExtractGraphCollisionMeshDedup(t *testing.T) {
	d, err := ParseBytes([]byte(`<robot name="r">
  <link name="a">
    <visual>
      <geometry><mesh filename="meshes/part.stl"/></geometry>
    </visual>
    <collision>
      <geometry><mesh filename="other/part.stl"/></geometry>
    </collision>
  </link>
</robot>`))
	require.NoError(t, err)

	g := ExtractGraph(d)
	// Same base name from visual and collision counts once.
	assert.Equal(t, []string{"part.stl"}, g.Links[0].Meshes)
}

func TestFindDuplicatesInDocument(t *testing.T) {
	g := ExtractGraph(parseTest(t))
	groups := links.FindDuplicateGroups(g)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"wheel_1", "wheel_2"}, groups[0].Members)
}

func TestApplyRemoval(t *testing.T) {
	d := parseTest(t)
	removal := links.RemovalSetFromNames([]string{"wheel_2"})

	removedLinks, removedJoints := ApplyRemoval(d, removal)
	assert.Equal(t, 1, removedLinks)
	assert.Equal(t, 1, removedJoints)

	assert.Len(t, d.LinkElements(), 3)
	assert.Len(t, d.JointElements(), 2)

	// Serialized output no longer mentions the removed pair and survives a
	// re-parse with a clean graph.
	data, err := d.Bytes()
	require.NoError(t, err)
	assert.NotContains(t, string(data), `name="wheel_2"`)
	assert.NotContains(t, string(data), `name="j_wheel_2"`)

	again, err := ParseBytes(data)
	require.NoError(t, err)
	assert.Empty(t, ExtractGraph(again).DanglingJoints())
}

func TestSummary(t *testing.T) {
	out := Summary(parseTest(t))
	assert.Contains(t, out, "ROBOT SUMMARY: testbot")
	assert.Contains(t, out, "Links: 4")
	assert.Contains(t, out, "Joints: 3 - continuous:2, fixed:1")
	assert.Contains(t, out, "Mesh files: 3")
	assert.Contains(t, out, "base, wheel_1, wheel_2, imu_frame")
}

func TestLinksReport(t *testing.T) {
	out := LinksReport(parseTest(t))
	assert.Contains(t, out, "ROBOT LINKS (4 total):")
	assert.Contains(t, out, "LINK: base")
	assert.Contains(t, out, "Origin: xyz=0 0 0.05, rpy=0 0 0")
	assert.Contains(t, out, "Material: grey, color=0.5 0.5 0.5 1.0")
	assert.Contains(t, out, "Mass: 2.5")
}

func TestJointsReport(t *testing.T) {
	out := JointsReport(parseTest(t))
	assert.Contains(t, out, "ROBOT JOINTS (3 total):")
	assert.Contains(t, out, "JOINT: j_wheel_1 (type: continuous)")
	assert.Contains(t, out, "Connection: base -> wheel_1")
	assert.Contains(t, out, "Axis: 0 1 0")
}
