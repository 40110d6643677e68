// Package main implements the document watch command.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"robomend/internal/tools/robot"
	"robomend/internal/watch"
)

// watchCmd re-runs mate diagnostics whenever the view documents change
var watchCmd = &cobra.Command{
	Use:   "watch <robot>",
	Short: "Watch the robot's documents and re-run mate diagnostics on change",
	Long: `Watches the three assembly JSON views and prints a fresh mate analysis
whenever one of them is written, debounced so a burst of exports produces a
single report. Read-only; stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	w, err := watch.New(robotDir(args[0]))
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	fmt.Printf("Watching %s (Ctrl-C to stop)\n", args[0])
	for {
		select {
		case report := <-w.Reports():
			fmt.Printf("\n--- %s ---\n", report.At.Format("15:04:05"))
			if report.Err != nil {
				fmt.Println("extraction failed:", report.Err)
				continue
			}
			fmt.Println(robot.MateAnalysis(report.Universe, report.Inconsistencies))
		case <-sigCh:
			fmt.Println("\nStopped.")
			return nil
		}
	}
}
