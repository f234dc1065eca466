package caddy

import (
	"context"
	"strings"

	"github.com/hostbay/caddex/internal/executor"
	"github.com/hostbay/caddex/internal/logger"
)

// Validator asks the proxy binary to parse the top-level config without
// applying it. It is the pre-flight gate for every reload.
type Validator struct {
	runner   executor.CommandRunner
	caddyBin string
	paths    Paths
}

// NewValidator creates a Validator invoking the given proxy binary.
func NewValidator(runner executor.CommandRunner, caddyBin string, paths Paths) *Validator {
	return &Validator{runner: runner, caddyBin: caddyBin, paths: paths}
}

// Validate runs the proxy binary's offline check against the current
// top-level file. It returns the combined process output for diagnostics.
//
// Any output containing the literal substring "error" is treated as
// failure even when the process exits zero: some proxy builds emit
// warnings on the success channel, and conflating those with hard errors
// is worse than the occasional false negative on an oddly-worded message.
func (v *Validator) Validate(ctx context.Context) (bool, string) {
	result, err := v.runner.Run(ctx, v.caddyBin, "validate", "--config", v.paths.TopLevel())
	output := string(result.Stdout) + string(result.Stderr)

	if err != nil {
		logger.Warn("config validation failed (exit %d): %s", result.ExitCode, output)
		return false, output
	}
	if strings.Contains(strings.ToLower(output), "error") {
		logger.Warn("config validation output mentions an error: %s", output)
		return false, output
	}

	logger.Debug("config validation passed for %s", v.paths.TopLevel())
	return true, output
}
