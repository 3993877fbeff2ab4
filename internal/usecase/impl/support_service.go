package impl

import (
	"context"
	"log/slog"

	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/listing"
	"portal/internal/usecase"
)

// supportService implements the SupportUsecase interface.
type supportService struct {
	api    UpstreamClient
	paths  dataPaths
	logger *slog.Logger
}

// NewSupportService is the constructor for supportService.
func NewSupportService(params DataServiceParams) usecase.SupportUsecase {
	return &supportService{
		api:    params.API,
		paths:  pathsFor(params.Tenant),
		logger: params.Logger,
	}
}

func (srv *supportService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerFrom(ctx, srv.logger)
}

func (srv *supportService) ListTickets(ctx context.Context, q listing.Query) (listing.Page[entity.Ticket], error) {
	items, err := fetchList[entity.Ticket](ctx, srv.api, srv.paths.Tickets, "tickets")
	if err != nil {
		return listing.Page[entity.Ticket]{}, err
	}

	return listing.Apply(items, q), nil
}

func (srv *supportService) DeleteTicket(ctx context.Context, id int64) (*usecase.ActionResult, error) {
	path := pathWithID(srv.paths.Ticket, id)
	if path == "" {
		return nil, domainerrors.ErrNotSupportedByTenant
	}

	result, err := mutate(ctx, func(out any) error {
		return srv.api.Delete(ctx, path, out)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Ticket deleted", slog.Int64("ticket_id", id))

	return result, nil
}

func (srv *supportService) ListVendorApplications(ctx context.Context, q listing.Query) (listing.Page[entity.VendorApplication], error) {
	items, err := fetchList[entity.VendorApplication](ctx, srv.api, srv.paths.VendorApplications, "applications")
	if err != nil {
		return listing.Page[entity.VendorApplication]{}, err
	}

	return listing.Apply(items, q), nil
}

func (srv *supportService) ApproveVendorApplication(ctx context.Context, id int64) (*usecase.ActionResult, error) {
	return srv.decide(ctx, srv.paths.ApproveApplication, id)
}

func (srv *supportService) RejectVendorApplication(ctx context.Context, id int64) (*usecase.ActionResult, error) {
	return srv.decide(ctx, srv.paths.RejectApplication, id)
}

func (srv *supportService) ListRatings(ctx context.Context, q listing.Query) (listing.Page[entity.Rating], error) {
	items, err := fetchList[entity.Rating](ctx, srv.api, srv.paths.Ratings, "ratings")
	if err != nil {
		return listing.Page[entity.Rating]{}, err
	}

	return listing.Apply(items, q), nil
}

func (srv *supportService) decide(ctx context.Context, pattern string, id int64) (*usecase.ActionResult, error) {
	path := pathWithID(pattern, id)
	if path == "" {
		return nil, domainerrors.ErrNotSupportedByTenant
	}

	result, err := mutate(ctx, func(out any) error {
		return srv.api.Post(ctx, path, nil, out)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Vendor application decided", slog.String("path", path))

	return result, nil
}
