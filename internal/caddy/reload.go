package caddy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hostbay/caddex/internal/errors"
	"github.com/hostbay/caddex/internal/executor"
	"github.com/hostbay/caddex/internal/logger"
)

// benignReloadStderr is informational output the proxy binary writes to
// stderr on a successful reload; it must not be mistaken for failure.
const benignReloadStderr = "using provided configuration"

// reloadContentType is the media type the admin API expects for a raw
// top-level config body.
const reloadContentType = "text/caddyfile"

// Tier is one reload control channel in the escalation sequence.
type Tier struct {
	Name string
	Run  func(ctx context.Context) error
}

// TierFailure records why one tier failed, with enough context to
// diagnose without retrying.
type TierFailure struct {
	Tier string
	Err  error
}

// ReloadError reports that every reload tier was exhausted.
type ReloadError struct {
	Failures []TierFailure
}

// Error implements the error interface.
func (e *ReloadError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Tier, f.Err))
	}
	return "all reload channels failed: " + strings.Join(parts, "; ")
}

// Is matches the reload sentinel so callers can use errors.Is.
func (e *ReloadError) Is(target error) bool {
	t, ok := target.(*errors.ProxyError)
	return ok && t.Code == errors.ErrCodeReload
}

// Orchestrator applies a validated configuration to the live proxy
// through an escalating sequence of control channels. Tiers are tried in
// order, once each; the first success wins.
type Orchestrator struct {
	validator    *Validator
	aggregator   *Aggregator
	runner       executor.CommandRunner
	client       *http.Client
	adminAddress string
	caddyBin     string
	serviceName  string
	paths        Paths
	tierTimeout  time.Duration
}

// NewOrchestrator creates an Orchestrator with the standard tier order:
// administrative API, service manager, direct CLI. Each tier is bounded
// by tierTimeout so a hung control channel counts as that tier's failure
// and the next tier still gets its chance.
func NewOrchestrator(validator *Validator, aggregator *Aggregator, runner executor.CommandRunner, client *http.Client, adminAddress, caddyBin, serviceName string, paths Paths, tierTimeout time.Duration) *Orchestrator {
	if client == nil {
		client = &http.Client{}
	}
	if tierTimeout <= 0 {
		tierTimeout = 30 * time.Second
	}
	return &Orchestrator{
		validator:    validator,
		aggregator:   aggregator,
		runner:       runner,
		client:       client,
		adminAddress: adminAddress,
		caddyBin:     caddyBin,
		serviceName:  serviceName,
		paths:        paths,
		tierTimeout:  tierTimeout,
	}
}

// Tiers returns the escalation sequence in order.
func (o *Orchestrator) Tiers() []Tier {
	return []Tier{
		{Name: "admin-api", Run: o.reloadViaAdminAPI},
		{Name: "service-manager", Run: o.reloadViaServiceManager},
		{Name: "direct-cli", Run: o.reloadViaCLI},
	}
}

// Apply pushes the current top-level config to the live proxy. It refuses
// to run any tier unless validation passes; a missing import directive is
// self-healed with one regeneration first. When every tier fails the
// per-tier diagnostics are returned in a ReloadError.
func (o *Orchestrator) Apply(ctx context.Context) error {
	ok, err := o.aggregator.HasImportDirective()
	if err != nil {
		return err
	}
	if !ok {
		logger.Warn("top-level config lost its import directive, regenerating")
		if err := o.aggregator.RegenerateTopLevel(); err != nil {
			return err
		}
	}

	validateCtx, cancel := context.WithTimeout(ctx, o.tierTimeout)
	valid, output := o.validator.Validate(validateCtx)
	cancel()
	if !valid {
		return errors.Wrap(errors.ErrCodeValidation, "refusing to reload", fmt.Errorf("validator output: %s", strings.TrimSpace(output)))
	}

	var failures []TierFailure
	for _, tier := range o.Tiers() {
		if err := o.runTier(ctx, tier); err != nil {
			logger.Warn("reload tier %s failed: %v", tier.Name, err)
			failures = append(failures, TierFailure{Tier: tier.Name, Err: err})
			continue
		}
		logger.Info("proxy reloaded via %s", tier.Name)
		return nil
	}

	return &ReloadError{Failures: failures}
}

// runTier bounds one tier with its own timeout.
func (o *Orchestrator) runTier(ctx context.Context, tier Tier) error {
	tierCtx, cancel := context.WithTimeout(ctx, o.tierTimeout)
	defer cancel()
	return tier.Run(tierCtx)
}

// reloadViaAdminAPI pushes the top-level file's bytes to the proxy's
// local administrative endpoint. Success is judged strictly by the
// response status code.
func (o *Orchestrator) reloadViaAdminAPI(ctx context.Context) error {
	data, err := os.ReadFile(o.paths.TopLevel())
	if err != nil {
		return fmt.Errorf("failed to read top-level config %s: %w", o.paths.TopLevel(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.adminAddress+"/load", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create admin request: %w", err)
	}
	req.Header.Set("Content-Type", reloadContentType)

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("admin API unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("admin API returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// reloadViaServiceManager asks the host service manager to reload the
// proxy's managed unit.
func (o *Orchestrator) reloadViaServiceManager(ctx context.Context) error {
	result, err := o.runner.Run(ctx, "systemctl", "reload", o.serviceName)
	if err != nil {
		return fmt.Errorf("systemctl reload %s failed (exit %d): %s", o.serviceName, result.ExitCode, string(result.Stderr))
	}
	return nil
}

// reloadViaCLI invokes the proxy binary's own reload subcommand against
// the top-level file directly. The binary prints an informational line to
// stderr on success; anything else on stderr is logged but only a
// non-zero exit fails the call.
func (o *Orchestrator) reloadViaCLI(ctx context.Context) error {
	result, err := o.runner.Run(ctx, o.caddyBin, "reload", "--config", o.paths.TopLevel())

	stderr := strings.TrimSpace(string(result.Stderr))
	if stderr != "" && !strings.Contains(stderr, benignReloadStderr) {
		logger.Warn("%s reload stderr: %s", o.caddyBin, stderr)
	}

	if err != nil {
		return fmt.Errorf("%s reload failed (exit %d): %s", o.caddyBin, result.ExitCode, stderr)
	}
	return nil
}
