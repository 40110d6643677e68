package robot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robomend/internal/config"
	"robomend/internal/mates"
	"robomend/internal/tools"
)

const testURDF = `<?xml version="1.0" ?>
<robot name="rover">
  <link name="base">
    <visual>
      <geometry><mesh filename="meshes/base.stl"/></geometry>
    </visual>
  </link>
  <link name="wheel_1">
    <visual>
      <geometry><mesh filename="meshes/wheel.stl"/></geometry>
    </visual>
  </link>
  <link name="wheel_2">
    <visual>
      <geometry><mesh filename="meshes/wheel.stl"/></geometry>
    </visual>
  </link>
  <joint name="j_w1" type="continuous">
    <parent link="base"/>
    <child link="wheel_1"/>
  </joint>
  <joint name="j_w2" type="continuous">
    <parent link="base"/>
    <child link="wheel_2"/>
  </joint>
</robot>
`

// newTestConfig lays out robots/rover with the full document set and returns
// a config pointing at it.
func newTestConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	robotsDir := t.TempDir()
	dir := filepath.Join(robotsDir, "rover")
	require.NoError(t, os.MkdirAll(dir, 0755))

	files := map[string]string{
		config.DefaultMateValuesFile: `{"mateValues": [{"mateName": "Revolute 1"}, {"mateName": "Slider 2"}]}`,
		config.DefaultFeaturesFile: `{"features": [
			{"message": {"featureType": "mate", "name": "Revolute 1"}},
			{"message": {"featureType": "mate", "name": "Slider 2"}},
			{"message": {"featureType": "mate", "name": "Fastened 1"}}
		]}`,
		config.DefaultAssemblyFile: `{"rootAssembly": {"features": [
			{"featureData": {"name": "dof_Revolute 1"}}
		]}}`,
		config.DefaultURDFFile: testURDF,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	cfg := config.Default()
	cfg.RobotsDir = robotsDir
	return cfg, dir
}

func newTestRegistry(t *testing.T) (*tools.Registry, string) {
	t.Helper()
	cfg, dir := newTestConfig(t)
	reg := tools.NewRegistry()
	RegisterAll(reg, cfg)
	return reg, dir
}

func TestRegisterAll(t *testing.T) {
	reg, _ := newTestRegistry(t)
	want := []string{
		"find_duplicate_links",
		"read_mates",
		"read_urdf",
		"remove_duplicate_links",
		"rename_mates",
	}
	assert.Equal(t, want, reg.Names())

	assert.False(t, reg.Get("read_mates").Mutating)
	assert.True(t, reg.Get("rename_mates").Mutating)
	assert.True(t, reg.Get("remove_duplicate_links").Mutating)
}

func TestReadMatesTool(t *testing.T) {
	reg, _ := newTestRegistry(t)

	result := reg.Execute(context.Background(), "read_mates", map[string]any{"robot": "rover"})
	require.NoError(t, result.Error)

	assert.Contains(t, result.Result, "MATE ANALYSIS")
	assert.Contains(t, result.Result, "matevalues_data.json: 2 mate instances (2 unique)")
	assert.Contains(t, result.Result, "Revolute 1")
	// Fastened 1 is never part of the universe.
	assert.NotContains(t, result.Result, "Fastened 1")
	// The views disagree, so diagnostics appear.
	assert.Contains(t, result.Result, "Issues found")
}

func TestReadMatesToolMissingRobotArg(t *testing.T) {
	reg, _ := newTestRegistry(t)
	result := reg.Execute(context.Background(), "read_mates", map[string]any{})
	assert.ErrorIs(t, result.Error, tools.ErrMissingRequiredArg)
}

func TestRenameMatesTool(t *testing.T) {
	reg, dir := newTestRegistry(t)

	result := reg.Execute(context.Background(), "rename_mates", map[string]any{
		"robot":   "rover",
		"mapping": map[string]any{"Revolute 1": "dof_hip"},
	})
	require.NoError(t, result.Error)
	assert.Contains(t, result.Result, "MATE RENAME OPERATION COMPLETED")
	assert.Contains(t, result.Result, `"Revolute 1" -> "dof_hip"`)

	// Persisted to disk, with backups of the originals.
	data, err := os.ReadFile(filepath.Join(dir, config.DefaultMateValuesFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "dof_hip")

	backup, err := os.ReadFile(filepath.Join(dir, config.DefaultMateValuesFile+".backup"))
	require.NoError(t, err)
	assert.Contains(t, string(backup), "Revolute 1")
}

func TestRenameMatesToolUnknownName(t *testing.T) {
	reg, dir := newTestRegistry(t)

	before, err := os.ReadFile(filepath.Join(dir, config.DefaultMateValuesFile))
	require.NoError(t, err)

	result := reg.Execute(context.Background(), "rename_mates", map[string]any{
		"robot":   "rover",
		"mapping": map[string]any{"Unknown Mate": "dof_x"},
	})
	require.Error(t, result.Error)
	assert.True(t, mates.IsUnknownIdentifier(result.Error))

	// Validation failure leaves the documents untouched.
	after, err := os.ReadFile(filepath.Join(dir, config.DefaultMateValuesFile))
	require.NoError(t, err)
	assert.Equal(t, before, after)
	_, err = os.Stat(filepath.Join(dir, config.DefaultMateValuesFile+".backup"))
	assert.True(t, os.IsNotExist(err))
}

func TestRenameMatesToolBadMapping(t *testing.T) {
	reg, _ := newTestRegistry(t)

	result := reg.Execute(context.Background(), "rename_mates", map[string]any{
		"robot":   "rover",
		"mapping": map[string]any{"Revolute 1": 42},
	})
	assert.Error(t, result.Error)
}

func TestReadURDFTool(t *testing.T) {
	reg, _ := newTestRegistry(t)

	tests := []struct {
		requested string
		contains  string
	}{
		{"", "ROBOT SUMMARY: rover"},
		{"summary", "ROBOT SUMMARY: rover"},
		{"links", "ROBOT LINKS (3 total):"},
		{"joints", "ROBOT JOINTS (2 total):"},
	}
	for _, tt := range tests {
		args := map[string]any{"robot": "rover"}
		if tt.requested != "" {
			args["requested_info"] = tt.requested
		}
		result := reg.Execute(context.Background(), "read_urdf", args)
		require.NoError(t, result.Error)
		assert.Contains(t, result.Result, tt.contains)
	}

	result := reg.Execute(context.Background(), "read_urdf", map[string]any{
		"robot": "rover", "requested_info": "bogus",
	})
	assert.Error(t, result.Error)
}

func TestFindDuplicateLinksTool(t *testing.T) {
	reg, _ := newTestRegistry(t)

	result := reg.Execute(context.Background(), "find_duplicate_links", map[string]any{"robot": "rover"})
	require.NoError(t, result.Error)
	assert.Contains(t, result.Result, "Found 1 groups of duplicate links:")
	assert.Contains(t, result.Result, `keep "wheel_1", remove 1 duplicates: wheel_2`)
	assert.Contains(t, result.Result, "Total links to remove: 1")
}

func TestRemoveDuplicateLinksTool(t *testing.T) {
	reg, dir := newTestRegistry(t)

	result := reg.Execute(context.Background(), "remove_duplicate_links", map[string]any{"robot": "rover"})
	require.NoError(t, result.Error)
	assert.Contains(t, result.Result, "DUPLICATE LINK REMOVAL COMPLETED")
	assert.Contains(t, result.Result, "Removed 1 links:")
	assert.Contains(t, result.Result, "wheel_2")
	assert.Contains(t, result.Result, "j_w2")

	data, err := os.ReadFile(filepath.Join(dir, config.DefaultURDFFile))
	require.NoError(t, err)
	assert.NotContains(t, string(data), `name="wheel_2"`)
	assert.NotContains(t, string(data), `name="j_w2"`)
	assert.Contains(t, string(data), `name="wheel_1"`)

	backup, err := os.ReadFile(filepath.Join(dir, config.DefaultURDFFile+".backup"))
	require.NoError(t, err)
	assert.Contains(t, string(backup), `name="wheel_2"`)

	// A second run has nothing left to remove and does not rewrite the file.
	result = reg.Execute(context.Background(), "remove_duplicate_links", map[string]any{"robot": "rover"})
	require.NoError(t, result.Error)
	assert.Equal(t, "No duplicate links found.", result.Result)
}

func TestRemoveDuplicateLinksToolExplicitList(t *testing.T) {
	reg, dir := newTestRegistry(t)

	result := reg.Execute(context.Background(), "remove_duplicate_links", map[string]any{
		"robot": "rover",
		"links": []any{"wheel_1"},
	})
	require.NoError(t, result.Error)
	assert.Contains(t, result.Result, "wheel_1")

	data, err := os.ReadFile(filepath.Join(dir, config.DefaultURDFFile))
	require.NoError(t, err)
	assert.NotContains(t, string(data), `name="wheel_1"`)
	assert.Contains(t, string(data), `name="wheel_2"`)
}

func TestRemoveDuplicateLinksToolUnknownExplicitLink(t *testing.T) {
	reg, _ := newTestRegistry(t)

	result := reg.Execute(context.Background(), "remove_duplicate_links", map[string]any{
		"robot": "rover",
		"links": []any{"no_such_link"},
	})
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "not found")
}
