// Package main implements the audit trail listing command.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"robomend/internal/audit"
)

var (
	auditRobot string
	auditLimit int
)

// auditCmd lists recorded mutating operations
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List recorded mutating operations",
	RunE:  runAuditList,
}

func init() {
	auditCmd.Flags().StringVar(&auditRobot, "robot", "", "Only show operations for this robot")
	auditCmd.Flags().IntVarP(&auditLimit, "limit", "n", 20, "Maximum entries to show")
}

func runAuditList(cmd *cobra.Command, args []string) error {
	store, err := audit.Open(cfg.Audit.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(auditRobot, auditLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No recorded operations.")
		return nil
	}

	fmt.Println("Recorded operations")
	fmt.Println(strings.Repeat("-", 50))
	for _, e := range entries {
		fmt.Printf("%s  %-14s robot=%s changes=%d op=%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Kind, e.Robot, e.Count, e.OperationID)
		if e.Detail != "" {
			fmt.Printf("    %s\n", e.Detail)
		}
	}
	return nil
}
