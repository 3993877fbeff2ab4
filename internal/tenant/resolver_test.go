package tenant

import (
	"testing"

	"portal/config"
	"portal/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func testRules() Rules {
	return RulesFromConfig(&config.TenantConfig{
		CentralHost:       "central",
		ProfessionalsHost: "professionals",
		EmployeesHost:     "employees",
		LoopbackHosts:     []string{"localhost", "127.0.0.1", "::1", "0.0.0.0"},
	})
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		env    BootEnv
		want   entity.Tenant
		wantOK bool
	}{
		{name: "auto professionals host", env: BootEnv{Override: "auto", Host: "professionals.homiqly.com"}, want: entity.TenantVendor, wantOK: true},
		{name: "auto loopback admin port", env: BootEnv{Override: "auto", Host: "localhost", Port: "3030"}, want: entity.TenantAdmin, wantOK: true},
		{name: "override central ignores host", env: BootEnv{Override: "central", Host: "professionals.homiqly.com", Port: "3031"}, want: entity.TenantAdmin, wantOK: true},
		{name: "override professionals", env: BootEnv{Override: "professionals"}, want: entity.TenantVendor, wantOK: true},
		{name: "override employees", env: BootEnv{Override: "EMPLOYEES"}, want: entity.TenantEmployee, wantOK: true},
		{name: "empty override detects", env: BootEnv{Host: "central.homiqly.com"}, want: entity.TenantAdmin, wantOK: true},
		{name: "host with port", env: BootEnv{Host: "Employees.Homiqly.com:443"}, want: entity.TenantEmployee, wantOK: true},
		{name: "loopback vendor port", env: BootEnv{Host: "127.0.0.1", Port: "3031"}, want: entity.TenantVendor, wantOK: true},
		{name: "loopback employee port", env: BootEnv{Host: "[::1]:3032", Port: "3032"}, want: entity.TenantEmployee, wantOK: true},
		{name: "loopback unknown port", env: BootEnv{Host: "localhost", Port: "8080"}, wantOK: false},
		{name: "unknown host", env: BootEnv{Host: "www.example.com", Port: "3030"}, wantOK: false},
		{name: "unknown override falls back to detection", env: BootEnv{Override: "nope", Host: "professionals.x"}, want: entity.TenantVendor, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.env, testRules())
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_HostRulesInOrder(t *testing.T) {
	got, ok := Resolve(BootEnv{Host: "central-professionals.example"}, testRules())

	assert.True(t, ok)
	assert.Equal(t, entity.TenantAdmin, got)
}

func TestResolve_Deterministic(t *testing.T) {
	env := BootEnv{Override: "auto", Host: "localhost", Port: "3031"}
	first, _ := Resolve(env, testRules())

	for range 100 {
		got, _ := Resolve(env, testRules())
		assert.Equal(t, first, got)
	}
}

func TestResolve_EmptySubstringNeverMatches(t *testing.T) {
	rules := RulesFromConfig(&config.TenantConfig{})

	_, ok := Resolve(BootEnv{Host: "anything"}, rules)
	assert.False(t, ok)
}

func TestNew_FallsBackToListenPort(t *testing.T) {
	cfg := &config.Config{Tenant: &config.TenantConfig{
		Selector:      "auto",
		Host:          "localhost",
		LoopbackHosts: []string{"localhost"},
	}}
	cfg.HTTP.Port = 3032

	sel := New(cfg)

	assert.True(t, sel.Resolved)
	assert.Equal(t, entity.TenantEmployee, sel.Tenant)
	assert.Equal(t, "3032", sel.Env.Port)
}
