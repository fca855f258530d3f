package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tempo/infras/postgres"
	"tempo/transport/http/response"
)

const pingTimeout = 2 * time.Second

// Pinger is a dependency the service cannot serve without.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type Handler struct {
	pingers map[string]Pinger
}

func New(db *postgres.Connection, redis *goRedis.Client) Handler {
	return NewWithPingers(map[string]Pinger{
		"postgres.read":  PingerFunc(db.Read.PingContext),
		"postgres.write": PingerFunc(db.Write.PingContext),
		"redis": PingerFunc(func(ctx context.Context) error {
			return redis.Ping(ctx).Err()
		}),
	})
}

func NewWithPingers(pingers map[string]Pinger) Handler {
	return Handler{pingers: pingers}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Health)
}

func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)

	for name, pinger := range handler.pingers {
		group.Go(func() error {
			if err := pinger.Ping(ctx); err != nil {
				log.Error().Err(err).Str("dependency", name).Msg("health check failed")

				return err
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		response.WithUnhealthy(w)

		return
	}

	response.WithMessage(w, http.StatusOK, "OK")
}
