package cli

import (
	"fmt"
	"strings"

	"github.com/hostbay/caddex/internal/config"
	"github.com/hostbay/caddex/internal/output"
	"github.com/hostbay/caddex/internal/registry"
)

// loadConfigAndService loads the tool config and builds the proxy service
func loadConfigAndService() (*config.Config, ProxyService, error) {
	cfg, err := deps.ConfigLoader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	svc, err := deps.ServiceFactory.Create(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create proxy service: %w", err)
	}

	return cfg, svc, nil
}

// loadRegistry loads the project registry
func loadRegistry() (*registry.Registry, error) {
	reg, err := deps.RegistryLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load project registry: %w", err)
	}
	return reg, nil
}

// saveRegistry saves the registry and returns error instead of just warning
func saveRegistry(reg *registry.Registry) error {
	if err := deps.RegistryLoader.Save(reg); err != nil {
		return fmt.Errorf("failed to save project registry: %w", err)
	}
	return nil
}

// requireRoot checks for root privileges via the injected checker
func requireRoot() error {
	return deps.RootChecker.RequireRoot()
}

// confirm prompts the user and returns true on y/yes
func confirm(format string, args ...interface{}) bool {
	output.Print(format, args...)
	answer, _ := deps.StdinReader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}

// outputResult handles JSON or human-readable output
func outputResult(data interface{}, successMsg string, args ...interface{}) error {
	if jsonOutput {
		return output.JSON(data)
	}
	output.Success(successMsg, args...)
	return nil
}

// validateDomain checks if domain is valid
func validateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain cannot be empty")
	}
	if strings.Contains(domain, " ") {
		return fmt.Errorf("domain cannot contain spaces")
	}
	if strings.HasPrefix(domain, "-") || strings.HasSuffix(domain, "-") {
		return fmt.Errorf("domain cannot start or end with hyphen")
	}
	return nil
}

// validatePort checks if a proxy target port is usable
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}
