package impl

import (
	"portal/internal/domain/entity"
)

// TenantProfile is everything that differs between the three tenant sessions.
type TenantProfile struct {
	Tenant entity.Tenant

	// Storage keys of the token and the serialized principal.
	TokenKey string
	DataKey  string

	LoginPath         string
	RequestResetPath  string
	VerifyResetPath   string
	ResetPasswordPath string
	// RegisterPath is empty for tenants without self registration.
	RegisterPath string

	// LoginRoute is the portal page unauthenticated visitors are sent to.
	LoginRoute string

	// DualScope lets the visitor choose the ephemeral scope at login.
	DualScope bool

	LoginFailure string
	ResetFailure string
}

// AdminProfile serves the central administration portal.
var AdminProfile = TenantProfile{
	Tenant:            entity.TenantAdmin,
	TokenKey:          "adminToken",
	DataKey:           "adminData",
	LoginPath:         "/api/admin/login",
	RequestResetPath:  "/api/admin/requestreset",
	VerifyResetPath:   "/api/admin/verifyresetcode",
	ResetPasswordPath: "/api/admin/resetpassword",
	LoginRoute:        "/login",
	LoginFailure:      "Login failed",
	ResetFailure:      "Password reset failed",
}

// VendorProfile serves the professionals portal.
var VendorProfile = TenantProfile{
	Tenant:            entity.TenantVendor,
	TokenKey:          "vendorToken",
	DataKey:           "vendorData",
	LoginPath:         "/api/vendor/login",
	RequestResetPath:  "/api/vendor/requestreset",
	VerifyResetPath:   "/api/vendor/verifyresetcode",
	ResetPasswordPath: "/api/vendor/resetpassword",
	RegisterPath:      "/api/vendor/register",
	LoginRoute:        "/vendor/login",
	DualScope:         true,
	LoginFailure:      "Login failed. Please check your credentials.",
	ResetFailure:      "Password reset failed",
}

// EmployeeProfile serves the employees portal.
var EmployeeProfile = TenantProfile{
	Tenant:            entity.TenantEmployee,
	TokenKey:          "employeesToken",
	DataKey:           "employeesData",
	LoginPath:         "/api/employee/login",
	RequestResetPath:  "/api/employee/requestreset",
	VerifyResetPath:   "/api/employee/verifyresetcode",
	ResetPasswordPath: "/api/employee/resetpassword",
	LoginRoute:        "/employees/login",
	LoginFailure:      "Login failed",
	ResetFailure:      "Password reset failed",
}

// scopes lists the storage scopes a tenant's session may live in, in lookup order.
func (p *TenantProfile) scopes() []entity.StorageScope {
	if p.DualScope {
		return []entity.StorageScope{entity.ScopeDurable, entity.ScopeEphemeral}
	}

	return []entity.StorageScope{entity.ScopeDurable}
}

// scopeFor picks the scope a login is stored in.
func (p *TenantProfile) scopeFor(remember bool) entity.StorageScope {
	if p.DualScope && !remember {
		return entity.ScopeEphemeral
	}

	return entity.ScopeDurable
}

// dataPaths are the upstream routes of the data pages, per tenant.
type dataPaths struct {
	Bookings           string
	Booking            string // fmt with id
	ApproveBooking     string
	RejectBooking      string
	AssignBooking      string
	Payments           string
	Payment            string
	Payouts            string
	ExecutePayout      string
	Tickets            string
	Ticket             string
	VendorApplications string
	ApproveApplication string
	RejectApplication  string
	Ratings            string
	Calendar           string
}

var tenantDataPaths = map[entity.Tenant]dataPaths{
	entity.TenantAdmin: {
		Bookings:           "/api/admin/getbookings",
		Booking:            "/api/admin/getbooking/%d",
		ApproveBooking:     "/api/admin/approvebooking/%d",
		RejectBooking:      "/api/admin/rejectbooking/%d",
		AssignBooking:      "/api/admin/assignbooking/%d",
		Payments:           "/api/admin/getpayments",
		Payment:            "/api/admin/getpayment/%d",
		Payouts:            "/api/admin/getpayouts",
		ExecutePayout:      "/api/admin/executepayout/%d",
		Tickets:            "/api/admin/gettickets",
		Ticket:             "/api/admin/deleteticket/%d",
		VendorApplications: "/api/admin/getvendorapplications",
		ApproveApplication: "/api/admin/approvevendor/%d",
		RejectApplication:  "/api/admin/rejectvendor/%d",
		Ratings:            "/api/admin/getratings",
	},
	entity.TenantVendor: {
		Bookings:       "/api/vendor/getbookings",
		Booking:        "/api/vendor/getbooking/%d",
		ApproveBooking: "/api/vendor/approvebooking/%d",
		RejectBooking:  "/api/vendor/rejectbooking/%d",
		AssignBooking:  "/api/vendor/assignbooking/%d",
		Payments:       "/api/vendor/getpayments",
		Payment:        "/api/vendor/getpayment/%d",
		Ratings:        "/api/vendor/getratings",
		Calendar:       "/api/vendor/getbookings",
	},
	entity.TenantEmployee: {
		Bookings:       "/api/employee/getbookings",
		Booking:        "/api/employee/getbooking/%d",
		ApproveBooking: "/api/employee/acceptbooking/%d",
		RejectBooking:  "/api/employee/rejectbooking/%d",
		Ratings:        "/api/employee/getratings",
		Calendar:       "/api/employee/getbookings",
	},
}

func pathsFor(tenant entity.Tenant) dataPaths {
	return tenantDataPaths[tenant]
}
