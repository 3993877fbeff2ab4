package entity

import (
	"bytes"
	"encoding/json"

	"portal/internal/errors"
)

// ErrPrincipalMalformed is returned when stored principal data is not a JSON object.
var ErrPrincipalMalformed = errors.New("principal data is not a JSON object")

// Principal is the common view every tenant identity satisfies.
// Tenant-specific fields are reached by a type switch on the concrete value.
type Principal interface {
	DisplayName() string
	RoleName() Role
	SubjectID() int64
}

// Identity holds the fields shared by all principals.
type Identity struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// DisplayName returns the name shown in greetings.
func (i Identity) DisplayName() string {
	return i.Name
}

// RoleName returns the principal's role.
func (i Identity) RoleName() Role {
	return i.Role
}

// Admin is the principal of the central administration tenant.
type Admin struct {
	AdminID int64 `json:"admin_id"`
	Identity
}

// SubjectID returns the admin identifier.
func (a Admin) SubjectID() int64 {
	return a.AdminID
}

// Vendor is the principal of the professionals tenant.
type Vendor struct {
	VendorID   int64  `json:"vendor_id"`
	VendorType string `json:"vendor_type"`
	Identity
}

// SubjectID returns the vendor identifier.
func (v Vendor) SubjectID() int64 {
	return v.VendorID
}

// IsCompany reports whether the vendor registered as a company.
func (v Vendor) IsCompany() bool {
	return v.VendorType == "company"
}

// Employee is the principal of the employees tenant.
type Employee struct {
	EmployeesID int64 `json:"employees_id"`
	Identity
}

// SubjectID returns the employee identifier.
func (e Employee) SubjectID() int64 {
	return e.EmployeesID
}

// DecodePrincipal parses stored principal data. Anything but a JSON object is malformed.
func DecodePrincipal[P Principal](raw []byte) (P, error) {
	var principal P

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return principal, errors.WithStack(ErrPrincipalMalformed)
	}

	if err := json.Unmarshal(trimmed, &principal); err != nil {
		return principal, errors.Wrap(err, "decode principal")
	}

	return principal, nil
}
