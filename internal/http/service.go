package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	apicontract "github.com/tuanvumaihuynh/warehouse/api-contract"
	"github.com/tuanvumaihuynh/warehouse/internal/apperr"
	"github.com/tuanvumaihuynh/warehouse/internal/auth"
	"github.com/tuanvumaihuynh/warehouse/internal/config"
	"github.com/tuanvumaihuynh/warehouse/internal/http/apierr"
	"github.com/tuanvumaihuynh/warehouse/internal/http/metric"
	"github.com/tuanvumaihuynh/warehouse/internal/http/middleware"
	"github.com/tuanvumaihuynh/warehouse/internal/http/swagger"
	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/service"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
	"github.com/tuanvumaihuynh/warehouse/pkg/validator"
)

const apiPrefix = "/api/v1"

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg       config.HTTP
	logger    *slog.Logger
	metrics   *metric.Metrics
	validator validator.Validator

	inventorySvc  service.InventoryService
	categorySvc   service.CategoryService
	authSvc       auth.Service
	auditLister   AuditLister
	tokenVerifier middleware.TokenVerifier
	healthChecker db.HealthChecker
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	validator validator.Validator,
	inventorySvc service.InventoryService,
	categorySvc service.CategoryService,
	authSvc auth.Service,
	auditLister AuditLister,
	tokenVerifier middleware.TokenVerifier,
	healthChecker db.HealthChecker,
) *Service {
	return &Service{
		cfg:           cfg,
		logger:        log.With(slog.String("service", "http")),
		metrics:       metric.New(),
		validator:     validator,
		inventorySvc:  inventorySvc,
		categorySvc:   categorySvc,
		authSvc:       authSvc,
		auditLister:   auditLister,
		tokenVerifier: tokenVerifier,
		healthChecker: healthChecker,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	return s.RunWithServer(ctx, s.Handler())
}

// Handler builds the router with every middleware and route registered.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r, "Warehouse API", apicontract.GetSpecBytes())
	}

	s.RegisterHandlers(r)

	return r
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", s.cfg.Port, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.AllowedOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	items := newItemHandler(s, s.inventorySvc)
	categories := newCategoryHandler(s, s.categorySvc)
	users := newAuthHandler(s, s.authSvc)
	audits := newAuditHandler(s.auditLister)
	health := &healthHandler{checker: s.healthChecker, logger: s.logger}

	privileged := middleware.RequireRoles(s.handleResponseError, model.RoleAdmin, model.RoleManager)

	r.Route(apiPrefix, func(r chi.Router) {
		r.Post("/auth/login", s.handle(users.Login))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(s.tokenVerifier, s.handleResponseError))

			r.With(privileged).Post("/auth/register", s.handle(users.Register))

			r.Route("/items", func(r chi.Router) {
				r.Get("/", s.handle(items.ListItems))
				r.Post("/", s.handle(items.CreateItem))
				r.Get("/{id}", s.handle(items.GetItem))
				r.Patch("/{id}", s.handle(items.UpdateItem))
				r.Delete("/{id}", s.handle(items.DeleteItem))
				r.Patch("/{id}/quantity", s.handle(items.AdjustQuantity))
				r.Get("/{id}/alerts", s.handle(items.ListItemAlerts))
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", s.handle(categories.ListCategories))
				r.Post("/", s.handle(categories.CreateCategory))
				r.Get("/{id}", s.handle(categories.GetCategory))
				r.Patch("/{id}", s.handle(categories.UpdateCategory))
				r.Delete("/{id}", s.handle(categories.DeleteCategory))
			})

			r.With(privileged).Get("/audit-logs", s.handle(audits.ListAuditLogs))
		})
	})

	r.Get("/healthz", health.Healthz)

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

func (s *Service) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			var reqErr requestError
			if errors.As(err, &reqErr) {
				s.handleRequestError(w, r, reqErr.err)
				return
			}
			s.handleResponseError(w, r, err)
		}
	}
}

func (s *Service) handleRequestError(w http.ResponseWriter, r *http.Request, err error) {
	err = apperr.ValidationErr.WithMsg(err.Error()).WrapParent(err)

	if _, encodeErr := apierr.Write(w, err); encodeErr != nil {
		s.logger.WarnContext(r.Context(), "error encoding error request",
			slog.Any("error", encodeErr))
	}
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res, encodeErr := apierr.Write(w, err)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if encodeErr != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", encodeErr))
	}
}
