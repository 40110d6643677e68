// Package main implements the link commands: duplicate detection and
// removal with joint repair.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"robomend/internal/audit"
	"robomend/internal/links"
	"robomend/internal/tools/robot"
	"robomend/internal/urdf"
)

var (
	explicitLinks []string
	linksDryRun   bool
)

// linksCmd groups the duplicate link operations
var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Detect and remove duplicate links in the robot's URDF",
}

// linksFindCmd lists duplicate groups without modifying anything
var linksFindCmd = &cobra.Command{
	Use:   "find <robot>",
	Short: "List groups of structurally identical links",
	Args:  cobra.ExactArgs(1),
	RunE:  runLinksFind,
}

// linksRemoveCmd removes duplicates and repairs the joint list
var linksRemoveCmd = &cobra.Command{
	Use:   "remove <robot>",
	Short: "Remove duplicate links and every joint referencing them",
	Long: `Removes all but the first member of each duplicate group, then drops
every joint whose parent or child was removed. Joints are never re-pointed
to a survivor.

Use --link to name links explicitly when the automated first-wins choice is
not the intended survivor.`,
	Args: cobra.ExactArgs(1),
	RunE: runLinksRemove,
}

func init() {
	linksRemoveCmd.Flags().StringArrayVar(&explicitLinks, "link", nil, "Explicit link to remove (repeatable; overrides automated selection)")
	linksRemoveCmd.Flags().BoolVar(&linksDryRun, "dry-run", false, "Show what would be removed without making changes")

	linksCmd.AddCommand(linksFindCmd)
	linksCmd.AddCommand(linksRemoveCmd)
}

func runLinksFind(cmd *cobra.Command, args []string) error {
	rd := robotDir(args[0])
	doc, err := rd.LoadURDF()
	if err != nil {
		return err
	}

	groups := links.FindDuplicateGroups(urdf.ExtractGraph(doc))
	fmt.Println(robot.DuplicateGroups(groups))
	return nil
}

func runLinksRemove(cmd *cobra.Command, args []string) error {
	robotName := args[0]
	rd := robotDir(robotName)
	doc, err := rd.LoadURDF()
	if err != nil {
		return err
	}
	graph := urdf.ExtractGraph(doc)

	var removal map[string]struct{}
	if len(explicitLinks) > 0 {
		for _, name := range explicitLinks {
			if !graph.HasLink(name) {
				return fmt.Errorf("link %q not found in the robot description", name)
			}
		}
		removal = links.RemovalSetFromNames(explicitLinks)
	} else {
		removal = links.ComputeRemovalSet(links.FindDuplicateGroups(graph))
	}

	if len(removal) == 0 {
		fmt.Println("No duplicate links found.")
		return nil
	}

	if linksDryRun {
		fmt.Printf("Dry run - would remove %d links:\n", len(removal))
		for _, name := range links.SortedNames(removal) {
			fmt.Printf("  - %s\n", name)
		}
		return nil
	}

	report, err := links.RemoveAndRepair(graph, removal)
	if err != nil {
		return err
	}
	urdf.ApplyRemoval(doc, removal)
	if err := rd.SaveURDF(doc); err != nil {
		return err
	}

	fmt.Println(robot.RemovalSummary(doc.RobotName(), report))
	recordAudit(audit.Entry{
		OperationID: report.OperationID,
		Robot:       robotName,
		Kind:        audit.KindRemoveLinks,
		Detail:      fmt.Sprintf("removed links: %v", report.RemovedLinks),
		Count:       report.RemovedCount(),
	})
	return nil
}
