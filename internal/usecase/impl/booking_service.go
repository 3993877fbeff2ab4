package impl

import (
	"context"
	"log/slog"

	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/listing"
	"portal/internal/pricing"
	"portal/internal/usecase"

	"go.uber.org/fx"
)

// DataServiceParams holds the dependencies shared by the data page services, injected by Fx.
type DataServiceParams struct {
	fx.In

	Tenant entity.Tenant
	API    UpstreamClient
	Logger *slog.Logger
}

// bookingService implements the BookingUsecase interface.
type bookingService struct {
	api    UpstreamClient
	paths  dataPaths
	logger *slog.Logger
}

// NewBookingService is the constructor for bookingService.
func NewBookingService(params DataServiceParams) usecase.BookingUsecase {
	return &bookingService{
		api:    params.API,
		paths:  pathsFor(params.Tenant),
		logger: params.Logger,
	}
}

func (srv *bookingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerFrom(ctx, srv.logger)
}

// ListBookings fetches every booking visible to the session and filters them locally.
func (srv *bookingService) ListBookings(ctx context.Context, q listing.Query) (listing.Page[entity.Booking], error) {
	items, err := fetchList[entity.Booking](ctx, srv.api, srv.paths.Bookings, "bookings")
	if err != nil {
		return listing.Page[entity.Booking]{}, err
	}

	return listing.Apply(items, q), nil
}

// GetBooking always fetches the booking by ID and prices it.
func (srv *bookingService) GetBooking(ctx context.Context, id int64) (*usecase.BookingDetail, error) {
	booking, err := fetchOne[entity.Booking](ctx, srv.api, pathWithID(srv.paths.Booking, id), "booking")
	if err != nil {
		return nil, err
	}

	return &usecase.BookingDetail{
		Booking: *booking,
		Pricing: pricing.Summarize(*booking),
	}, nil
}

// ApproveBooking forwards the approval as is; re-approving is left to the server to judge.
func (srv *bookingService) ApproveBooking(ctx context.Context, id int64) (*usecase.ActionResult, error) {
	return srv.post(ctx, srv.paths.ApproveBooking, id, nil)
}

func (srv *bookingService) RejectBooking(ctx context.Context, id int64) (*usecase.ActionResult, error) {
	return srv.post(ctx, srv.paths.RejectBooking, id, nil)
}

func (srv *bookingService) AssignVendor(ctx context.Context, id int64, req entity.AssignVendor) (*usecase.ActionResult, error) {
	return srv.post(ctx, srv.paths.AssignBooking, id, req)
}

func (srv *bookingService) post(ctx context.Context, pattern string, id int64, body any) (*usecase.ActionResult, error) {
	if pattern == "" {
		return nil, domainerrors.ErrNotSupportedByTenant
	}

	path := pathWithID(pattern, id)
	result, err := mutate(ctx, func(out any) error {
		return srv.api.Post(ctx, path, body, out)
	})
	if err != nil {
		srv.log(ctx).Warn("Booking action failed", slog.String("path", path), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Booking action applied", slog.String("path", path), slog.Int64("booking_id", id))

	return result, nil
}
