// Package tenant selects the one tenant a process serves, once, at boot.
package tenant

import (
	"net"
	"os"
	"slices"
	"strconv"
	"strings"

	"portal/config"
	"portal/internal/domain/entity"
)

// Selector values accepted as an explicit override.
const (
	SelectorAuto          = "auto"
	SelectorCentral       = "central"
	SelectorProfessionals = "professionals"
	SelectorEmployees     = "employees"
)

// BootEnv is everything resolution looks at.
type BootEnv struct {
	Override string
	Host     string
	Port     string
}

// HostRule selects Tenant when the host contains Substring.
type HostRule struct {
	Substring string
	Tenant    entity.Tenant
}

// Rules configures detection. Host rules are tried in order.
type Rules struct {
	Hosts         []HostRule
	LoopbackHosts []string
	Ports         map[string]entity.Tenant
}

// Resolve picks the tenant for env. It is a pure function of its inputs.
func Resolve(env BootEnv, rules Rules) (entity.Tenant, bool) {
	switch strings.ToLower(strings.TrimSpace(env.Override)) {
	case SelectorCentral:
		return entity.TenantAdmin, true
	case SelectorProfessionals:
		return entity.TenantVendor, true
	case SelectorEmployees:
		return entity.TenantEmployee, true
	}

	host := normalizeHost(env.Host)

	var selected entity.Tenant
	for _, rule := range rules.Hosts {
		if rule.Substring != "" && strings.Contains(host, strings.ToLower(rule.Substring)) {
			selected = rule.Tenant

			break
		}
	}

	if slices.Contains(rules.LoopbackHosts, host) {
		if t, ok := rules.Ports[strings.TrimSpace(env.Port)]; ok {
			selected = t
		}
	}

	return selected, selected != ""
}

// normalizeHost lowercases and strips a port and IPv6 brackets.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	return strings.Trim(host, "[]")
}

// RulesFromConfig builds detection rules from configuration.
func RulesFromConfig(cfg *config.TenantConfig) Rules {
	rules := Rules{
		Hosts: []HostRule{
			{Substring: cfg.CentralHost, Tenant: entity.TenantAdmin},
			{Substring: cfg.ProfessionalsHost, Tenant: entity.TenantVendor},
			{Substring: cfg.EmployeesHost, Tenant: entity.TenantEmployee},
		},
		LoopbackHosts: cfg.LoopbackHosts,
		Ports:         make(map[string]entity.Tenant, 3),
	}

	for port, t := range map[string]entity.Tenant{
		orDefault(cfg.CentralPort, "3030"):       entity.TenantAdmin,
		orDefault(cfg.ProfessionalsPort, "3031"): entity.TenantVendor,
		orDefault(cfg.EmployeesPort, "3032"):     entity.TenantEmployee,
	} {
		rules.Ports[port] = t
	}

	return rules
}

// BootEnvFromConfig reads the boot environment. The host falls back to the machine
// hostname and the port to the HTTP listen port.
func BootEnvFromConfig(cfg *config.Config) BootEnv {
	env := BootEnv{
		Override: cfg.Tenant.Selector,
		Host:     cfg.Tenant.Host,
		Port:     cfg.Tenant.Port,
	}
	if env.Host == "" {
		env.Host, _ = os.Hostname()
	}
	if env.Port == "" {
		env.Port = strconv.Itoa(cfg.HTTP.Port)
	}

	return env
}

// Selection is the boot-time resolution result provided to the rest of the process.
type Selection struct {
	Tenant   entity.Tenant
	Resolved bool
	Env      BootEnv
}

// New resolves the tenant from configuration.
func New(cfg *config.Config) Selection {
	env := BootEnvFromConfig(cfg)
	t, ok := Resolve(env, RulesFromConfig(cfg.Tenant))

	return Selection{Tenant: t, Resolved: ok, Env: env}
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}

	return s
}
