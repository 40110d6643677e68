// Package main implements the tool listing and invocation commands.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"robomend/internal/tools"
	"robomend/internal/tools/robot"
)

var toolArgsJSON string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List and run the registered robot tools",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered tools",
	Args:  cobra.NoArgs,
	RunE:  runToolsList,
}

var toolsRunCmd = &cobra.Command{
	Use:   "run <tool>",
	Short: "Run a tool by name with JSON arguments",
	Long: `Runs a registered tool directly. Arguments are passed as a single JSON
object via --args, for example:

  robomend tools run rename_mates --args '{"robot":"arm","mapping":{"Revolute 1":"dof_hip"}}'`,
	Args: cobra.ExactArgs(1),
	RunE: runToolsRun,
}

func init() {
	toolsRunCmd.Flags().StringVar(&toolArgsJSON, "args", "{}", "tool arguments as a JSON object")
	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsRunCmd)
}

func newRegistry() *tools.Registry {
	reg := tools.NewRegistry()
	robot.RegisterAll(reg, cfg)
	return reg
}

func runToolsList(cmd *cobra.Command, args []string) error {
	reg := newRegistry()
	for _, name := range reg.Names() {
		tool := reg.Get(name)
		marker := " "
		if tool.Mutating {
			marker = "*"
		}
		fmt.Printf("%s %-24s %-9s %s\n", marker, tool.Name, tool.Category, tool.Description)
	}
	fmt.Printf("\n%d tools registered (* mutates documents)\n", reg.Count())
	return nil
}

func runToolsRun(cmd *cobra.Command, args []string) error {
	var toolArgs map[string]any
	if err := json.Unmarshal([]byte(toolArgsJSON), &toolArgs); err != nil {
		return fmt.Errorf("parsing --args: %w", err)
	}

	result := newRegistry().Execute(cmd.Context(), args[0], toolArgs)
	if result.Error != nil {
		return result.Error
	}
	fmt.Println(result.Result)
	fmt.Printf("\n(%dms)\n", result.DurationMs)
	return nil
}
