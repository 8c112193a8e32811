package startup

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casbin/casbin"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"profile_service/authorization"
	"profile_service/casbinAuthorization"
	"profile_service/domain"
	"profile_service/handlers"
	application "profile_service/service"
	"profile_service/startup/config"
	"profile_service/store"
)

type Server struct {
	config *config.Config
	logger *logrus.Logger
}

func NewServer(config *config.Config, logger *logrus.Logger) *Server {
	return &Server{
		config: config,
		logger: logger,
	}
}

// Backends are the collaborators a Server talks to. Start builds them from
// configuration; tests pass in-memory ones.
type Backends struct {
	Profiles domain.ProfileStore
	Cache    domain.ProfileCache
	Denylist domain.TokenDenylist
}

func (server *Server) initMongoClient(httpClient *http.Client) (*mongo.Client, error) {
	return store.GetClientWithHTTPConfig(server.config.ProfileDBHost, server.config.ProfileDBPort, httpClient)
}

func (server *Server) initBackends(tracer trace.Tracer) (Backends, func(), error) {
	var backends Backends
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if server.config.UseMemoryStore() {
		server.logger.Warn("PROFILE_DB_HOST not set, profiles are kept in memory")
		backends.Profiles = store.NewProfileMemoryStore(true, server.logger)
	} else {
		httpClient := &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				MaxConnsPerHost:     10,
			},
		}
		mongoClient, err := server.initMongoClient(httpClient)
		if err != nil {
			return backends, cleanup, fmt.Errorf("connect profile store: %w", err)
		}
		closers = append(closers, func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				server.logger.Errorf("Error disconnecting profile store: %v", err)
			}
		})
		backends.Profiles = store.NewProfileMongoDBStore(mongoClient, tracer, server.logger)
	}

	if server.config.UseRedis() {
		redisClient, err := store.GetRedisClient(server.config.ProfileCacheHost, server.config.ProfileCachePort)
		if err != nil {
			cleanup()
			return backends, func() {}, fmt.Errorf("connect profile cache: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })
		backends.Cache = store.NewProfileRedisCache(redisClient, server.config.ProfileCacheTTL, tracer, server.logger)
		backends.Denylist = store.NewTokenRedisDenylist(redisClient, tracer, server.logger)
	} else {
		backends.Denylist = store.NewTokenMemoryDenylist()
	}

	return backends, cleanup, nil
}

// Handler assembles the HTTP surface: request logging, identity, route
// policy, then the router. The returned func releases editor sessions.
func (server *Server) Handler(backends Backends, tracer trace.Tracer, registry *prometheus.Registry) (http.Handler, func(), error) {
	metrics, err := application.NewMetrics(registry)
	if err != nil {
		return nil, nil, err
	}

	profileService := application.NewProfileService(backends.Profiles, backends.Cache, metrics, tracer, server.logger, server.config.StoreTimeout)
	sessions, err := application.NewEditorSessions(server.config.EditorSessionLimit, profileService, metrics, server.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("editor sessions: %w", err)
	}

	verifier, err := authorization.NewTokenVerifier([]byte(server.config.SecretKey), backends.Denylist)
	if err != nil {
		sessions.Close()
		return nil, nil, fmt.Errorf("token verifier: %w", err)
	}
	redirector, err := authorization.NewSignInRedirector(server.config.IdentityAuthorizeURL, server.config.IdentityProviders)
	if err != nil {
		sessions.Close()
		return nil, nil, err
	}

	enforcer, err := casbin.NewEnforcerSafe(server.config.RBACModel, server.config.RBACPolicy)
	if err != nil {
		sessions.Close()
		return nil, nil, fmt.Errorf("load rbac policy: %w", err)
	}
	server.logger.Info("profile service successful init of enforcer")

	router := mux.NewRouter()
	router.Use(handlers.ExtractTraceInfoMiddleware)
	router.Use(MiddlewareContentTypeSet)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	handlers.NewCatalogHandler(tracer).Init(router)
	handlers.NewProfileHandler(profileService, tracer, server.logger).Init(router)
	handlers.NewSelectorHandler(sessions, server.config.EditorLoadWait, tracer, server.logger).Init(router)
	handlers.NewAuthHandler(verifier, redirector, sessions, tracer, server.logger).Init(router)

	var handler http.Handler = router
	handler = casbinAuthorization.CasbinMiddleware(enforcer, server.logger)(handler)
	handler = authorization.IdentityMiddleware(verifier, server.logger)(handler)
	handler = RequestLoggingMiddleware(server.logger)(handler)
	return handler, sessions.Close, nil
}

func (server *Server) initTracer() (*sdktrace.TracerProvider, error) {
	var exporter sdktrace.SpanExporter
	if server.config.JaegerAddress != "" {
		exp, err := newExporter(server.config.JaegerAddress)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize exporter: %w", err)
		}
		exporter = exp
	}

	tp, err := newTraceProvider(exporter)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp, nil
}

func (server *Server) Start() error {
	tp, err := server.initTracer()
	if err != nil {
		return err
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()
	tracer := tp.Tracer(serviceName)

	backends, closeBackends, err := server.initBackends(tracer)
	if err != nil {
		return err
	}
	defer closeBackends()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler, closeSessions, err := server.Handler(backends, tracer, registry)
	if err != nil {
		return err
	}
	defer closeSessions()

	return server.start(handler)
}

func (server *Server) start(handler http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", server.config.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wait := time.Second * 15
	errs := make(chan error, 1)
	go func() {
		server.logger.Infof("Profile service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errs:
		return err
	case <-c:
	}

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	server.logger.Info("Server Gracefully Stopped")
	return nil
}

func MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		rw.Header().Add("Content-Type", "application/json")
		rw.Header().Set("X-Content-Type-Options", "nosniff")
		rw.Header().Set("X-Frame-Options", "DENY")
		rw.Header().Set("Content-Security-Policy", "default-src 'self'; frame-ancestors 'none'")

		next.ServeHTTP(rw, h)
	})
}
