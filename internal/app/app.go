package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/foodieapp/storefront-gateway/internal/aggregate"
	"github.com/foodieapp/storefront-gateway/internal/checkout"
	"github.com/foodieapp/storefront-gateway/internal/dashboard"
	"github.com/foodieapp/storefront-gateway/internal/domain/cart"
	"github.com/foodieapp/storefront-gateway/internal/handler"
	"github.com/foodieapp/storefront-gateway/internal/remote"
	"github.com/foodieapp/storefront-gateway/internal/upstream"
	"github.com/foodieapp/storefront-gateway/pkg/health"
	"github.com/foodieapp/storefront-gateway/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the gateway.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	newClient := func(name, baseURL string) (*remote.Client, error) {
		return remote.NewClient(remote.Config{
			Service: name,
			BaseURL: baseURL,
			Timeout: cfg.Upstreams.Timeout,
		}, remote.WithTracerProvider(m.TracerProvider()))
	}

	upstreams := []struct {
		name string
		url  string
	}{
		{"user-service", cfg.Upstreams.UserURL},
		{"restaurant-service", cfg.Upstreams.RestaurantURL},
		{"order-service", cfg.Upstreams.OrderURL},
		{"payment-service", cfg.Upstreams.PaymentURL},
		{"notification-service", cfg.Upstreams.NotificationURL},
	}
	clients := make([]*remote.Client, len(upstreams))
	for i, u := range upstreams {
		c, err := newClient(u.name, u.url)
		if err != nil {
			return errors.Wrapf(err, "create %s client", u.name)
		}
		clients[i] = c
	}
	userRC, restaurantRC, orderRC, paymentRC, notificationRC := clients[0], clients[1], clients[2], clients[3], clients[4]

	// Probes: upstream reachability is reported, never gating.
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	for i, u := range upstreams {
		healthSvc.AddUpstreamCheck(u.name, cfg.Upstreams.Timeout, health.PingCheck(clients[i]))
	}
	healthSvc.Start(ctx, 10*time.Second)

	// Upstream service clients.
	users := upstream.NewUserClient(userRC)
	restaurants := upstream.NewRestaurantClient(restaurantRC)
	orders := upstream.NewOrderClient(orderRC)
	payments := upstream.NewPaymentClient(paymentRC)
	notifications := upstream.NewNotificationClient(notificationRC)

	// Core services.
	carts := cart.NewStore(upstream.NewCartMirror(orderRC), lg.Named("cart"))
	checkoutSvc := checkout.NewService(orders, payments, lg.Named("checkout"))
	dashboards := dashboard.NewService(
		aggregate.New(lg.Named("aggregate")),
		users, restaurants, orders, payments, notifications,
	)

	h := handler.NewHandler(carts, checkoutSvc, dashboards, handler.Clients{
		Users:         users,
		Restaurants:   restaurants,
		Orders:        orders,
		Payments:      payments,
		Notifications: notifications,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", h.Routes())

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           24 * time.Hour,
			}),
			httpmiddleware.RateLimit(httpmiddleware.RateLimitConfig{
				RPS:   cfg.RateLimit.RPS,
				Burst: cfg.RateLimit.Burst,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}
	healthSvc.SetReady(true)

	// Graceful shutdown: flip readiness, drain, flush cart syncs, stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		carts.Wait()
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
