package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"portal/config"
	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	"portal/internal/infra/metrics"
	"portal/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const msgResetNotRequested = "Please request a reset code first"

type resetFlowGauge interface {
	SetResetFlows(tenant string, n int)
}

// resetFlowService keeps reset flows in memory so the reset token never reaches the browser.
type resetFlowService struct {
	mu     sync.Mutex
	flows  map[string]*entity.ResetFlow
	ttl    time.Duration
	tenant entity.Tenant
	gauge  resetFlowGauge
	now    func() time.Time
	logger *slog.Logger
}

// ResetFlowServiceParams holds dependencies for ResetFlowService, injected by Fx.
type ResetFlowServiceParams struct {
	fx.In

	Config  *config.Config
	Tenant  entity.Tenant
	Metrics *metrics.Collector `optional:"true"`
	Logger  *slog.Logger
}

// NewResetFlowService creates the reset flow registry of the mounted tenant.
func NewResetFlowService(params ResetFlowServiceParams) usecase.ResetFlowUsecase {
	var gauge resetFlowGauge
	if params.Metrics != nil {
		gauge = params.Metrics
	}

	return newResetFlowService(params.Tenant, params.Config.Auth.ResetFlowTTL, gauge, params.Logger)
}

func newResetFlowService(tenant entity.Tenant, ttl time.Duration, gauge resetFlowGauge, logger *slog.Logger) *resetFlowService {
	return &resetFlowService{
		flows:  make(map[string]*entity.ResetFlow),
		ttl:    ttl,
		tenant: tenant,
		gauge:  gauge,
		now:    time.Now,
		logger: logger,
	}
}

func (srv *resetFlowService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerFrom(ctx, srv.logger)
}

// Request sends a reset code and (re)starts the flow. It returns the flow ID to hand back to the browser.
func (srv *resetFlowService) Request(ctx context.Context, session usecase.SessionUsecase, flowID, email string) (string, entity.Result) {
	result := session.RequestPasswordReset(ctx, email)
	if !result.Success {
		return flowID, result
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	now := srv.now()
	srv.sweepLocked(now)

	flow, ok := srv.flows[flowID]
	if !ok {
		flow = entity.NewResetFlow(uuid.NewString(), now)
		srv.flows[flow.ID] = flow
	}
	flow.RequestSent(email, now)
	srv.reportLocked()

	return flow.ID, result
}

// Verify exchanges the code for a reset token kept on the flow.
func (srv *resetFlowService) Verify(ctx context.Context, session usecase.SessionUsecase, flowID, email, code string) entity.Result {
	flow, ok := srv.lookup(flowID)
	if !ok {
		return entity.Failed(msgResetNotRequested)
	}

	srv.mu.Lock()
	if email == "" {
		email = flow.Email
	}
	srv.mu.Unlock()

	result := session.VerifyResetCode(ctx, email, code)
	if !result.Success {
		return result
	}

	srv.mu.Lock()
	err := flow.CodeVerified(result.ResetToken, srv.now())
	srv.mu.Unlock()
	if err != nil {
		srv.log(ctx).Warn("Reset code verified out of order", slog.String("flow_id", flowID), slog.Any("error", err))

		return entity.Failed(msgResetNotRequested)
	}

	return entity.Succeeded()
}

// Reset sets the new password with the flow's reset token. The token is taken off the flow
// for the duration of the call, so concurrent resets of one flow reach upstream once.
// Without a verified code the session store refuses the call before reaching upstream.
func (srv *resetFlowService) Reset(ctx context.Context, session usecase.SessionUsecase, flowID, newPassword string) entity.Result {
	var token string

	flow, ok := srv.lookup(flowID)
	if ok {
		srv.mu.Lock()
		token, _ = flow.TakeResetToken()
		srv.mu.Unlock()
	}

	result := session.ResetPassword(ctx, token, newPassword)
	if !result.Success {
		if token != "" {
			srv.mu.Lock()
			flow.RestoreResetToken(token, srv.now())
			srv.mu.Unlock()
		}

		return result
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	now := srv.now()
	if err := flow.PasswordReset(now); err == nil {
		_ = flow.Finish(now)
	}
	delete(srv.flows, flowID)
	srv.reportLocked()

	return result
}

func (srv *resetFlowService) lookup(flowID string) (*entity.ResetFlow, bool) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.sweepLocked(srv.now())
	flow, ok := srv.flows[flowID]

	return flow, ok
}

// sweepLocked drops flows idle for longer than the TTL.
func (srv *resetFlowService) sweepLocked(now time.Time) {
	for id, flow := range srv.flows {
		if now.Sub(flow.UpdatedAt) > srv.ttl {
			delete(srv.flows, id)
		}
	}
	srv.reportLocked()
}

func (srv *resetFlowService) reportLocked() {
	if srv.gauge != nil {
		srv.gauge.SetResetFlows(srv.tenant.String(), len(srv.flows))
	}
}
