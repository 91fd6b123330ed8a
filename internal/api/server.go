// Package api implements the server's authenticated HTTPS surface (spec.md
// §4.H, §6): GET /api/clients/{hostname} and GET /assets/{path...}, plus
// the SPEC_FULL.md-supplemented /healthz and /metrics endpoints. Grounded
// on the retrieval pack's gin usage (jinterlante1206-AleutianLocal's
// services/orchestrator/middleware) for the router and middleware shape,
// and on the teacher's HotSwapGraph-backed reads for the catalog.Store
// dependency.
package api

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pullconf/pullconf/internal/assets"
	"github.com/pullconf/pullconf/internal/catalog"
	"github.com/pullconf/pullconf/internal/logging"
)

// Options configures NewRouter and Serve.
type Options struct {
	Store             *catalog.Store
	Assets            *assets.Root
	Log               *logging.Logger
	Registry          *prometheus.Registry
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
}

// NewRouter builds the gin engine, wired to store/assets/metrics but
// without binding a listener — split out so tests can drive it with
// httptest without a real TLS socket.
func NewRouter(opts Options) (*gin.Engine, *Metrics) {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics := NewMetrics(reg)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	if opts.Log != nil {
		r.Use(AccessLogMiddleware(opts.Log))
	}
	r.Use(MetricsMiddleware(metrics))

	srv := &Server{store: opts.Store, assets: opts.Assets, metrics: metrics}

	r.GET("/healthz", srv.healthzHandler)
	r.GET("/metrics", gin.WrapH(Handler(reg)))
	r.GET("/api/clients/:hostname", srv.clientHandler)
	r.GET("/assets/*path", srv.assetHandler)

	return r, metrics
}

// ListenAndServeTLS runs the HTTPS server until ctx is cancelled, then
// shuts down gracefully. Callers that need to share the server's Metrics
// with another component (e.g. the reload controller) should call
// NewRouter and Serve separately instead.
func ListenAndServeTLS(ctx context.Context, addr, certFile, keyFile string, opts Options) error {
	router, _ := NewRouter(opts)
	return Serve(ctx, router, addr, certFile, keyFile, opts)
}

// Serve runs router as an HTTPS server until ctx is cancelled, then shuts
// down gracefully.
func Serve(ctx context.Context, router http.Handler, addr, certFile, keyFile string, opts Options) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: nonZero(opts.ReadHeaderTimeout, 5*time.Second),
		WriteTimeout:      nonZero(opts.WriteTimeout, 30*time.Second),
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServeTLS(certFile, keyFile)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func nonZero(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
