// Package main implements read-only URDF inspection commands.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"robomend/internal/urdf"
)

// urdfCmd groups the read-only URDF reports
var urdfCmd = &cobra.Command{
	Use:       "urdf <robot> [summary|links|joints]",
	Short:     "Print a summary of the robot's URDF",
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{"summary", "links", "joints"},
	RunE:      runURDF,
}

func runURDF(cmd *cobra.Command, args []string) error {
	rd := robotDir(args[0])
	doc, err := rd.LoadURDF()
	if err != nil {
		return err
	}

	requested := "summary"
	if len(args) == 2 {
		requested = args[1]
	}

	switch requested {
	case "summary":
		fmt.Println(urdf.Summary(doc))
	case "links":
		fmt.Println(urdf.LinksReport(doc))
	case "joints":
		fmt.Println(urdf.JointsReport(doc))
	default:
		return fmt.Errorf("invalid report %q: must be one of summary, links, joints", requested)
	}
	return nil
}
