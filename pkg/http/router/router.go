package router

import (
	"context"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/rs/cors"
	"github.com/salcc/iGo/pkg/http/router/controllers"
	router_helper "github.com/salcc/iGo/pkg/http/router/routerhelper"
	http_server "github.com/salcc/iGo/pkg/http/server"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type API struct {
	log *zap.Logger
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

// Handler builds the full middleware chain around the /api routes.
func (api *API) Handler(routingService controllers.RoutingService, limiter *Limiter) http.Handler {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})

	group := router_helper.NewRouteGroup(router, "/api")
	controllers.New(routingService, api.log).Routes(group)

	mwChain := []alice.Constructor{corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
		RealIP, Heartbeat("/api/healthz"), Logger(api.log)}
	if limiter != nil {
		mwChain = append(mwChain, limiter.Limit)
	}
	return alice.New(mwChain...).Then(router)
}

func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	useRateLimit bool,
	routingService controllers.RoutingService,
) error {
	api.log.Info("Run httprouter API")

	var limiter *Limiter
	if useRateLimit {
		rps := viper.GetFloat64("RATE_LIMIT_RPS")
		limiter = NewLimiter(rps, int(rps))
	}

	srv := http_server.New(ctx, api.Handler(routingService, limiter), config)
	api.log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		api.log.Info("HTTP server stopped", zap.Error(err))
		return err
	case <-ctx.Done():
		api.log.Info("Context canceled, shutting down server")
		_ = srv.Shutdown(context.Background())
		return ctx.Err()
	}
}
