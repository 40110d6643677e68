// Package robot wires the core engines into callable tools. Each tool loads
// its documents fresh, runs one engine operation, persists through the
// docio adapter when mutating, and returns a formatted report string.
package robot

import (
	"context"
	"fmt"

	"robomend/internal/config"
	"robomend/internal/docio"
	"robomend/internal/links"
	"robomend/internal/mates"
	"robomend/internal/tools"
	"robomend/internal/urdf"
)

// RegisterAll registers every robot tool against the registry.
func RegisterAll(reg *tools.Registry, cfg *config.Config) {
	reg.MustRegister(ReadMatesTool(cfg))
	reg.MustRegister(RenameMatesTool(cfg))
	reg.MustRegister(ReadURDFTool(cfg))
	reg.MustRegister(FindDuplicateLinksTool(cfg))
	reg.MustRegister(RemoveDuplicateLinksTool(cfg))
}

func robotDir(cfg *config.Config, args map[string]any) (*docio.RobotDir, error) {
	robot, _ := args["robot"].(string)
	if robot == "" {
		return nil, fmt.Errorf("robot is required")
	}
	return docio.NewRobotDir(cfg.RobotsDir, robot, cfg), nil
}

// ReadMatesTool returns the read-only mate analysis tool.
func ReadMatesTool(cfg *config.Config) *tools.Tool {
	return &tools.Tool{
		Name:        "read_mates",
		Description: "List mate names across the robot's three assembly documents, with consistency diagnostics",
		Category:    tools.CategoryMates,
		Priority:    90,
		Schema: tools.ToolSchema{
			Required: []string{"robot"},
			Properties: map[string]tools.Property{
				"robot": {Type: "string", Description: "Robot directory name"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			rd, err := robotDir(cfg, args)
			if err != nil {
				return "", err
			}
			views := rd.LoadViews()
			universe, diags, err := mates.Extract(views)
			if err != nil {
				return "", err
			}
			diags = append(diags, mates.Diagnose(universe)...)
			return MateAnalysis(universe, diags), nil
		},
	}
}

// RenameMatesTool returns the mutating mate rename tool.
func RenameMatesTool(cfg *config.Config) *tools.Tool {
	return &tools.Tool{
		Name:        "rename_mates",
		Description: "Rename mates consistently across all three assembly documents",
		Category:    tools.CategoryMates,
		Priority:    80,
		Mutating:    true,
		Schema: tools.ToolSchema{
			Required: []string{"robot", "mapping"},
			Properties: map[string]tools.Property{
				"robot":   {Type: "string", Description: "Robot directory name"},
				"mapping": {Type: "object", Description: "Old mate name to new mate name"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			rd, err := robotDir(cfg, args)
			if err != nil {
				return "", err
			}
			mapping, err := renameMapArg(args)
			if err != nil {
				return "", err
			}

			views := rd.LoadViews()
			universe, _, err := mates.Extract(views)
			if err != nil {
				return "", err
			}
			if err := mates.Validate(universe, mapping); err != nil {
				return "", err
			}
			report, err := mates.Apply(views, mapping)
			if err != nil {
				return "", err
			}
			if err := rd.SaveViews(views); err != nil {
				return "", err
			}
			return report.Summary(mapping), nil
		},
	}
}

func renameMapArg(args map[string]any) (mates.RenameMap, error) {
	raw, ok := args["mapping"].(map[string]any)
	if !ok || len(raw) == 0 {
		return nil, mates.ErrEmptyRenameMap
	}
	mapping := make(mates.RenameMap, len(raw))
	for old, v := range raw {
		newName, ok := v.(string)
		if !ok || newName == "" {
			return nil, fmt.Errorf("mapping value for %q must be a non-empty string", old)
		}
		mapping[old] = newName
	}
	return mapping, nil
}

// ReadURDFTool returns the read-only URDF inspection tool.
func ReadURDFTool(cfg *config.Config) *tools.Tool {
	return &tools.Tool{
		Name:        "read_urdf",
		Description: "Summarize the robot's URDF: links, joints, or a high-level overview",
		Category:    tools.CategoryURDF,
		Priority:    90,
		Schema: tools.ToolSchema{
			Required: []string{"robot"},
			Properties: map[string]tools.Property{
				"robot": {Type: "string", Description: "Robot directory name"},
				"requested_info": {
					Type:        "string",
					Description: "What to report",
					Default:     "summary",
					Enum:        []any{"summary", "links", "joints"},
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			rd, err := robotDir(cfg, args)
			if err != nil {
				return "", err
			}
			doc, err := rd.LoadURDF()
			if err != nil {
				return "", err
			}
			requested, _ := args["requested_info"].(string)
			switch requested {
			case "", "summary":
				return urdf.Summary(doc), nil
			case "links":
				return urdf.LinksReport(doc), nil
			case "joints":
				return urdf.JointsReport(doc), nil
			default:
				return "", fmt.Errorf("invalid requested_info %q: must be one of summary, links, joints", requested)
			}
		},
	}
}

// FindDuplicateLinksTool returns the read-only duplicate detection tool.
func FindDuplicateLinksTool(cfg *config.Config) *tools.Tool {
	return &tools.Tool{
		Name:        "find_duplicate_links",
		Description: "Group structurally identical URDF links without modifying anything",
		Category:    tools.CategoryLinks,
		Priority:    90,
		Schema: tools.ToolSchema{
			Required: []string{"robot"},
			Properties: map[string]tools.Property{
				"robot": {Type: "string", Description: "Robot directory name"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			rd, err := robotDir(cfg, args)
			if err != nil {
				return "", err
			}
			doc, err := rd.LoadURDF()
			if err != nil {
				return "", err
			}
			groups := links.FindDuplicateGroups(urdf.ExtractGraph(doc))
			return DuplicateGroups(groups), nil
		},
	}
}

// RemoveDuplicateLinksTool returns the mutating link removal tool. Without
// an explicit list it removes everything but each group's first member;
// passing "links" overrides the automated choice.
func RemoveDuplicateLinksTool(cfg *config.Config) *tools.Tool {
	return &tools.Tool{
		Name:        "remove_duplicate_links",
		Description: "Remove duplicate URDF links and every joint referencing them",
		Category:    tools.CategoryLinks,
		Priority:    80,
		Mutating:    true,
		Schema: tools.ToolSchema{
			Required: []string{"robot"},
			Properties: map[string]tools.Property{
				"robot": {Type: "string", Description: "Robot directory name"},
				"links": {Type: "array", Description: "Explicit link names to remove instead of the automated selection"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			rd, err := robotDir(cfg, args)
			if err != nil {
				return "", err
			}
			doc, err := rd.LoadURDF()
			if err != nil {
				return "", err
			}
			graph := urdf.ExtractGraph(doc)

			removal, err := removalSetArg(graph, args)
			if err != nil {
				return "", err
			}
			if len(removal) == 0 {
				return "No duplicate links found.", nil
			}

			report, err := links.RemoveAndRepair(graph, removal)
			if err != nil {
				return "", err
			}
			urdf.ApplyRemoval(doc, removal)
			if err := rd.SaveURDF(doc); err != nil {
				return "", err
			}
			return RemovalSummary(doc.RobotName(), report), nil
		},
	}
}

func removalSetArg(graph *links.Graph, args map[string]any) (map[string]struct{}, error) {
	raw, ok := args["links"].([]any)
	if !ok {
		groups := links.FindDuplicateGroups(graph)
		return links.ComputeRemovalSet(groups), nil
	}
	names := make([]string, 0, len(raw))
	for _, v := range raw {
		name, ok := v.(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("links entries must be non-empty strings")
		}
		if !graph.HasLink(name) {
			return nil, fmt.Errorf("link %q not found in the robot description", name)
		}
		names = append(names, name)
	}
	return links.RemovalSetFromNames(names), nil
}
