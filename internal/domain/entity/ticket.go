package entity

import "strconv"

// Ticket is a support ticket raised by a user or vendor.
type Ticket struct {
	TicketID  int64  `json:"ticket_id"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	RaisedBy  string `json:"raised_by"`
	Status    string `json:"status"`
	CreatedAt Date   `json:"created_at"`
}

func (t Ticket) StatusValue() string { return t.Status }

func (t Ticket) SearchText() []string {
	return []string{strconv.FormatInt(t.TicketID, 10), t.Subject, t.Message, t.RaisedBy}
}

func (t Ticket) RecordDate() Date { return t.CreatedAt }

// VendorApplication is a vendor's request to offer a service.
type VendorApplication struct {
	ApplicationID int64  `json:"application_id"`
	VendorID      int64  `json:"vendor_id"`
	VendorName    string `json:"vendor_name"`
	Email         string `json:"email"`
	VendorType    string `json:"vendor_type"`
	ServiceName   string `json:"service_name"`
	Status        string `json:"status"`
	AppliedAt     Date   `json:"applied_at"`
}

func (a VendorApplication) StatusValue() string { return a.Status }

func (a VendorApplication) SearchText() []string {
	return []string{a.VendorName, a.Email, a.ServiceName}
}

func (a VendorApplication) RecordDate() Date { return a.AppliedAt }

// Rating is a customer's review of a completed booking.
type Rating struct {
	RatingID     int64  `json:"rating_id"`
	BookingID    int64  `json:"booking_id"`
	CustomerName string `json:"user_name"`
	VendorName   string `json:"vendor_name,omitempty"`
	ServiceName  string `json:"service_name,omitempty"`
	Stars        int    `json:"rating"`
	Review       string `json:"review"`
	CreatedAt    Date   `json:"created_at"`
}

// StatusValue lets ratings be filtered by star count.
func (r Rating) StatusValue() string { return strconv.Itoa(r.Stars) }

func (r Rating) SearchText() []string {
	return []string{r.CustomerName, r.VendorName, r.ServiceName, r.Review}
}

func (r Rating) RecordDate() Date { return r.CreatedAt }
