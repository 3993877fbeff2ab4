package usecase

import (
	"context"
	"time"

	"portal/internal/calendar"
	"portal/internal/domain/entity"
	"portal/internal/listing"
	"portal/internal/pricing"
)

// ActionResult is the upstream answer to a row mutation, surfaced as is.
type ActionResult struct {
	Message string `json:"message,omitempty"`
}

// BookingDetail is a fetched booking with its price breakdown.
type BookingDetail struct {
	Booking entity.Booking  `json:"booking"`
	Pricing pricing.Summary `json:"pricing"`
}

// BookingUsecase backs the bookings page of every tenant.
type BookingUsecase interface {
	ListBookings(ctx context.Context, q listing.Query) (listing.Page[entity.Booking], error)
	GetBooking(ctx context.Context, id int64) (*BookingDetail, error)
	ApproveBooking(ctx context.Context, id int64) (*ActionResult, error)
	RejectBooking(ctx context.Context, id int64) (*ActionResult, error)
	AssignVendor(ctx context.Context, id int64, req entity.AssignVendor) (*ActionResult, error)
}

// PaymentUsecase backs the payments and payouts pages.
type PaymentUsecase interface {
	ListPayments(ctx context.Context, q listing.Query) (listing.Page[entity.Payment], error)
	GetPayment(ctx context.Context, id int64) (*entity.Payment, error)
	ListPayouts(ctx context.Context, q listing.Query) (listing.Page[entity.Payout], error)
	ExecutePayout(ctx context.Context, id int64) (*ActionResult, error)
}

// SupportUsecase backs the tickets, vendor applications and ratings pages.
type SupportUsecase interface {
	ListTickets(ctx context.Context, q listing.Query) (listing.Page[entity.Ticket], error)
	DeleteTicket(ctx context.Context, id int64) (*ActionResult, error)
	ListVendorApplications(ctx context.Context, q listing.Query) (listing.Page[entity.VendorApplication], error)
	ApproveVendorApplication(ctx context.Context, id int64) (*ActionResult, error)
	RejectVendorApplication(ctx context.Context, id int64) (*ActionResult, error)
	ListRatings(ctx context.Context, q listing.Query) (listing.Page[entity.Rating], error)
}

// CalendarUsecase backs the vendor and employee calendars.
type CalendarUsecase interface {
	Month(ctx context.Context, year int, month time.Month) (*calendar.Month, error)
}
