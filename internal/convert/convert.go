// Package convert invokes the external onshape-to-robot converter after a
// successful document mutation. The converter is an outside collaborator;
// this package only shells out to it and captures its output.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"robomend/internal/config"
	"robomend/internal/logging"
)

// Runner executes the configured converter command for a robot directory.
type Runner struct {
	command string
	timeout time.Duration
	log     *zap.Logger
}

// NewRunner builds a runner from configuration. A malformed timeout falls
// back to two minutes.
func NewRunner(cfg config.ConvertConfig, log *zap.Logger) *Runner {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{command: cfg.Command, timeout: timeout, log: log}
}

// Run executes the converter against the robot directory and returns its
// combined output. The command line is split on whitespace so configured
// flags survive; the robot directory is always the last argument.
func (r *Runner) Run(ctx context.Context, robotDir string) (string, error) {
	fields := strings.Fields(r.command)
	if len(fields) == 0 {
		return "", fmt.Errorf("converter command not configured")
	}
	args := append(fields[1:], robotDir)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.log.Info("running converter",
		zap.String("command", r.command),
		zap.String("robot_dir", robotDir))
	logging.Convert("running %s %s", r.command, robotDir)

	cmd := exec.CommandContext(ctx, fields[0], args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	output := out.String()
	if err != nil {
		r.log.Warn("converter failed", zap.Error(err))
		logging.Convert("converter failed: %v", err)
		return output, fmt.Errorf("converter failed: %w", err)
	}

	logging.Convert("converter completed (%d bytes of output)", len(output))
	return output, nil
}
