package entity

import "strconv"

// BookingStatus values as reported by the upstream API.
const (
	BookingPending   = "pending"
	BookingApproved  = "approved"
	BookingRejected  = "rejected"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Booking is a customer's service booking.
type Booking struct {
	BookingID    int64               `json:"booking_id"`
	ServiceName  string              `json:"service_name"`
	CustomerName string              `json:"customer_name"`
	VendorID     int64               `json:"vendor_id,omitempty"`
	VendorName   string              `json:"vendor_name,omitempty"`
	EmployeeID   int64               `json:"employee_id,omitempty"`
	Status       string              `json:"booking_status"`
	BookingDate  Date                `json:"booking_date"`
	BookingTime  string              `json:"booking_time,omitempty"`
	Address      string              `json:"address,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	Packages     []BookingPackage    `json:"packages,omitempty"`
	Preferences  []BookingPreference `json:"preferences,omitempty"`
	CreatedAt    Date                `json:"created_at"`
}

// BookingPackage is a package selected in a booking.
type BookingPackage struct {
	PackageID   int64          `json:"package_id"`
	PackageName string         `json:"package_name"`
	Price       Amount         `json:"package_price"`
	Items       []BookingItem  `json:"items,omitempty"`
	Addons      []BookingAddon `json:"addons,omitempty"`
}

// BookingItem is a sub-item of a package, charged per unit.
type BookingItem struct {
	ItemID   int64  `json:"item_id"`
	ItemName string `json:"item_name"`
	Price    Amount `json:"price"`
	Quantity int    `json:"quantity"`
}

// BookingAddon is an optional extra attached to a package.
type BookingAddon struct {
	AddonID   int64  `json:"addon_id"`
	AddonName string `json:"addon_name"`
	Price     Amount `json:"price"`
}

// BookingPreference is a customer preference that may carry a surcharge.
type BookingPreference struct {
	PreferenceID    int64  `json:"preference_id"`
	PreferenceValue string `json:"preference_value"`
	Price           Amount `json:"preference_price"`
}

// StatusValue implements listing.Record.
func (b Booking) StatusValue() string { return b.Status }

// SearchText implements listing.Record.
func (b Booking) SearchText() []string {
	return []string{strconv.FormatInt(b.BookingID, 10), b.ServiceName, b.CustomerName, b.VendorName}
}

// RecordDate implements listing.Record.
func (b Booking) RecordDate() Date { return b.BookingDate }

// AssignVendor is the body of a vendor assignment.
type AssignVendor struct {
	VendorID int64 `json:"vendor_id" validate:"required,gt=0"`
}
