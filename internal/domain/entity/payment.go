package entity

import "strconv"

// Payment is a customer payment for a booking.
type Payment struct {
	PaymentID    int64  `json:"payment_id"`
	BookingID    int64  `json:"booking_id"`
	CustomerName string `json:"user_name"`
	VendorName   string `json:"vendor_name,omitempty"`
	Amount       Amount `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"payment_status"`
	Reference    string `json:"payment_intent_id,omitempty"`
	CreatedAt    Date   `json:"created_at"`
}

func (p Payment) StatusValue() string { return p.Status }

func (p Payment) SearchText() []string {
	return []string{strconv.FormatInt(p.PaymentID, 10), strconv.FormatInt(p.BookingID, 10), p.CustomerName, p.VendorName, p.Reference}
}

func (p Payment) RecordDate() Date { return p.CreatedAt }

// Payout is money owed to a vendor.
type Payout struct {
	PayoutID    int64  `json:"payout_id"`
	VendorID    int64  `json:"vendor_id"`
	VendorName  string `json:"vendor_name"`
	Amount      Amount `json:"amount"`
	Status      string `json:"payout_status"`
	RequestedAt Date   `json:"requested_at"`
}

func (p Payout) StatusValue() string { return p.Status }

func (p Payout) SearchText() []string {
	return []string{strconv.FormatInt(p.PayoutID, 10), p.VendorName}
}

func (p Payout) RecordDate() Date { return p.RequestedAt }
