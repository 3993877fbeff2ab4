package storage

import (
	"net/http"
	"time"

	"portal/config"
	"portal/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// FactoryParams holds dependencies for Factory, injected by Fx.
type FactoryParams struct {
	fx.In

	Config *config.Config
	Redis  *redis.Client `optional:"true"`
}

// Factory builds the scope pair of each request from configuration.
type Factory struct {
	durableMaxAge time.Duration
	secure        bool
	redis         HashClient
}

// NewFactory creates a Factory. The Redis client is only used by the redis backend.
func NewFactory(params FactoryParams) *Factory {
	f := &Factory{
		durableMaxAge: params.Config.Storage.DurableMaxAge,
		secure:        params.Config.Storage.SecureCookies,
	}
	if params.Config.Storage.Backend == "redis" && params.Redis != nil {
		f.redis = params.Redis
	}

	return f
}

// ForRequest returns the scopes of the browser behind r.
func (f *Factory) ForRequest(w http.ResponseWriter, r *http.Request) repository.ScopePair {
	jar := NewCookieJar(w, r, f.secure)

	durable := jar.Durable(f.durableMaxAge)
	if f.redis != nil {
		durable = NewRedis(f.redis, jar.DeviceID(), f.durableMaxAge)
	}

	return repository.ScopePair{
		Durable:   durable,
		Ephemeral: jar.Ephemeral(),
	}
}
