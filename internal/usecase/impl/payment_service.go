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

// paymentService implements the PaymentUsecase interface.
type paymentService struct {
	api    UpstreamClient
	paths  dataPaths
	logger *slog.Logger
}

// NewPaymentService is the constructor for paymentService.
func NewPaymentService(params DataServiceParams) usecase.PaymentUsecase {
	return &paymentService{
		api:    params.API,
		paths:  pathsFor(params.Tenant),
		logger: params.Logger,
	}
}

func (srv *paymentService) ListPayments(ctx context.Context, q listing.Query) (listing.Page[entity.Payment], error) {
	items, err := fetchList[entity.Payment](ctx, srv.api, srv.paths.Payments, "payments")
	if err != nil {
		return listing.Page[entity.Payment]{}, err
	}

	return listing.Apply(items, q), nil
}

func (srv *paymentService) GetPayment(ctx context.Context, id int64) (*entity.Payment, error) {
	return fetchOne[entity.Payment](ctx, srv.api, pathWithID(srv.paths.Payment, id), "payment")
}

func (srv *paymentService) ListPayouts(ctx context.Context, q listing.Query) (listing.Page[entity.Payout], error) {
	items, err := fetchList[entity.Payout](ctx, srv.api, srv.paths.Payouts, "payouts")
	if err != nil {
		return listing.Page[entity.Payout]{}, err
	}

	return listing.Apply(items, q), nil
}

// ExecutePayout releases a pending payout to the vendor.
func (srv *paymentService) ExecutePayout(ctx context.Context, id int64) (*usecase.ActionResult, error) {
	path := pathWithID(srv.paths.ExecutePayout, id)
	if path == "" {
		return nil, domainerrors.ErrNotSupportedByTenant
	}

	result, err := mutate(ctx, func(out any) error {
		return srv.api.Post(ctx, path, nil, out)
	})
	if err != nil {
		return nil, err
	}

	deliverycontext.LoggerFrom(ctx, srv.logger).Info("Payout executed", slog.Int64("payout_id", id))

	return result, nil
}
