// Package main implements the mate commands: listing the name universe with
// diagnostics, and renaming mates consistently across the three views.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"robomend/internal/audit"
	"robomend/internal/convert"
	"robomend/internal/mates"
	"robomend/internal/tools/robot"
)

var (
	mappingFile string
	prependDOF  bool
	dryRun      bool
	runConvert  bool
)

// matesCmd groups the mate operations
var matesCmd = &cobra.Command{
	Use:   "mates",
	Short: "Inspect and rename mates across the three assembly documents",
}

// matesListCmd prints the name universe with diagnostics
var matesListCmd = &cobra.Command{
	Use:   "list <robot>",
	Short: "List mate names with consistency diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatesList,
}

// matesRenameCmd applies a rename mapping to all three views
var matesRenameCmd = &cobra.Command{
	Use:   "rename <robot>",
	Short: "Rename mates consistently across all three documents",
	Long: `Applies a rename mapping to every view of the assembly at once.

The mapping comes from --mapping-file (a JSON object of old name to new
name) or --prepend-dof, which renames every mate lacking the dof_ prefix.
Validation runs against the union of names observed in all three views;
an unknown name fails the whole request before anything is touched.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatesRename,
}

func init() {
	matesRenameCmd.Flags().StringVarP(&mappingFile, "mapping-file", "m", "", "JSON file containing the rename mapping")
	matesRenameCmd.Flags().BoolVar(&prependDOF, "prepend-dof", false, "Rename every mate lacking the dof_ prefix to dof_<name>")
	matesRenameCmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Show what would be renamed without making changes")
	matesRenameCmd.Flags().BoolVar(&runConvert, "convert", false, "Run the onshape-to-robot converter after a successful rename")

	matesCmd.AddCommand(matesListCmd)
	matesCmd.AddCommand(matesRenameCmd)
}

func runMatesList(cmd *cobra.Command, args []string) error {
	rd := robotDir(args[0])
	views := rd.LoadViews()

	universe, diags, err := mates.Extract(views)
	if err != nil {
		return err
	}
	diags = append(diags, mates.Diagnose(universe)...)

	fmt.Println(robot.MateAnalysis(universe, diags))
	return nil
}

func runMatesRename(cmd *cobra.Command, args []string) error {
	robotName := args[0]
	rd := robotDir(robotName)
	views := rd.LoadViews()

	universe, _, err := mates.Extract(views)
	if err != nil {
		return err
	}

	mapping, err := resolveMapping(universe)
	if err != nil {
		return err
	}
	if len(mapping) == 0 {
		fmt.Println("No renames to apply.")
		return nil
	}

	if err := mates.Validate(universe, mapping); err != nil {
		return err
	}

	if dryRun {
		fmt.Println("Dry run - no changes made. Planned renames:")
		for _, old := range mapping.SortedKeys() {
			fmt.Printf("  %q -> %q (%d instances)\n", old, mapping[old], universe.MaxCount(old))
		}
		return nil
	}

	report, err := mates.Apply(views, mapping)
	if err != nil {
		return err
	}
	if err := rd.SaveViews(views); err != nil {
		return err
	}

	fmt.Println(report.Summary(mapping))
	recordAudit(audit.Entry{
		OperationID: report.OperationID,
		Robot:       robotName,
		Kind:        audit.KindRename,
		Detail:      describeMapping(mapping),
		Count:       report.Total(),
	})

	if runConvert {
		runner := convert.NewRunner(cfg.Convert, logger)
		out, err := runner.Run(context.Background(), rd.Dir())
		if out != "" {
			fmt.Println("\nConverter output:")
			fmt.Println(out)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// resolveMapping builds the rename map from flags.
func resolveMapping(universe *mates.NameUniverse) (mates.RenameMap, error) {
	if prependDOF && mappingFile != "" {
		return nil, fmt.Errorf("cannot use --prepend-dof with --mapping-file; choose one")
	}
	if prependDOF {
		return mates.PrependDOFMap(universe), nil
	}
	if mappingFile == "" {
		return nil, fmt.Errorf("either --mapping-file or --prepend-dof is required")
	}

	data, err := os.ReadFile(mappingFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}
	var mapping mates.RenameMap
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("invalid JSON in mapping file %s: %w", mappingFile, err)
	}
	return mapping, nil
}

func describeMapping(mapping mates.RenameMap) string {
	data, err := json.Marshal(mapping)
	if err != nil {
		return ""
	}
	return string(data)
}

// recordAudit best-effort writes to the audit trail; a failed write is
// logged but never fails the operation that already happened.
func recordAudit(e audit.Entry) {
	if !cfg.Audit.Enabled {
		return
	}
	store, err := audit.Open(cfg.Audit.Path)
	if err != nil {
		logger.Warn("audit store unavailable", zap.Error(err))
		return
	}
	defer store.Close()
	if err := store.Record(e); err != nil {
		logger.Warn("audit record failed", zap.Error(err))
	}
}
