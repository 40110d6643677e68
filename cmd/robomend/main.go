// robomend maintains robot description documents produced by an
// Onshape-to-robot export: consistent mate renaming across the three
// assembly JSON views, and duplicate link removal in the derived URDF.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"robomend/internal/config"
	"robomend/internal/docio"
	"robomend/internal/logging"
)

var (
	// Global flags
	verbose   bool
	robotsDir string
	workspace string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "robomend",
	Short: "robomend - robot description document maintenance",
	Long: `robomend keeps an Onshape-to-robot export consistent.

A robot directory holds three JSON views of the assembly's mates
(matevalues_data.json, features_data.json, assembly_data.json) plus the
derived robot.urdf. robomend renames mates across all three views at once,
detects and removes structurally duplicate URDF links, and repairs the
joint list so nothing references a removed link.

Every mutating command backs up each document before overwriting it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if workspace == "" {
			workspace, _ = os.Getwd()
		}
		cfg, err = config.Load(workspace)
		if err != nil {
			return err
		}
		if robotsDir != "" {
			cfg.RobotsDir = robotsDir
		}
		if !filepath.IsAbs(cfg.Audit.Path) {
			cfg.Audit.Path = filepath.Join(workspace, cfg.Audit.Path)
		}

		return logging.Initialize(workspace, logging.Settings{
			DebugMode:  cfg.Logging.DebugMode,
			Categories: cfg.Logging.Categories,
			Level:      cfg.Logging.Level,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

// robotDir resolves the document adapter for a robot name argument.
func robotDir(robot string) *docio.RobotDir {
	return docio.NewRobotDir(cfg.RobotsDir, robot, cfg)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&robotsDir, "robots-dir", "", "Directory containing robot subdirectories (default: robots)")
	rootCmd.PersistentFlags().StringVar(&workspace, "workspace", "", "Workspace directory holding .robomend (default: cwd)")

	rootCmd.AddCommand(matesCmd)
	rootCmd.AddCommand(linksCmd)
	rootCmd.AddCommand(urdfCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(toolsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
