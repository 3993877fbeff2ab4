package entity

// Tenant identifies one of the three audiences served by the portal.
type Tenant string

const (
	TenantAdmin    Tenant = "admin"
	TenantVendor   Tenant = "vendor"
	TenantEmployee Tenant = "employee"
)

// String returns the string representation of the Tenant.
func (t Tenant) String() string {
	return string(t)
}

// IsValid checks if the Tenant is a known value.
func (t Tenant) IsValid() bool {
	switch t {
	case TenantAdmin, TenantVendor, TenantEmployee:
		return true
	default:
		return false
	}
}

// StorageScope selects where a session is mirrored in the browser.
type StorageScope string

const (
	// ScopeDurable survives browser restarts.
	ScopeDurable StorageScope = "durable"
	// ScopeEphemeral is cleared when the browsing context closes.
	ScopeEphemeral StorageScope = "ephemeral"
)

// Other returns the opposite scope.
func (s StorageScope) Other() StorageScope {
	if s == ScopeEphemeral {
		return ScopeDurable
	}

	return ScopeEphemeral
}
