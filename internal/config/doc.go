// Package config manages the caddex tool configuration stored in YAML format.
//
// The config package provides persistent settings for the proxy pipeline:
// where generated configuration lives, how the proxy binary and its admin
// API are reached, and how long child-process invocations may run.
// Configuration is stored in the user's home directory at
// ~/.config/caddex/config.yaml.
//
// # Configuration Structure
//
// Example config.yaml:
//
//	data_dir: /var/lib/caddex
//	caddy_bin: caddy
//	admin_address: http://localhost:2019
//	service_name: caddy
//	server_ip: 203.0.113.10
//	api_port: 8080
//	command_timeout: 30
//
// # Usage
//
// Loading configuration (defaults are returned when the file is missing):
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Saving after modification:
//
//	cfg.ServerIP = "203.0.113.10"
//	if err := cfg.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// The per-project registry is a separate concern; see the registry package.
package config
