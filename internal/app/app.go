package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/crm-activity-backend/internal/adapter/crmapi"
	"github.com/heartmarshall/crm-activity-backend/internal/adapter/postgres"
	pgactivity "github.com/heartmarshall/crm-activity-backend/internal/adapter/postgres/activity"
	pguser "github.com/heartmarshall/crm-activity-backend/internal/adapter/postgres/user"
	pgviewfilter "github.com/heartmarshall/crm-activity-backend/internal/adapter/postgres/viewfilter"
	pgmember "github.com/heartmarshall/crm-activity-backend/internal/adapter/postgres/workspacemember"
	"github.com/heartmarshall/crm-activity-backend/internal/auth"
	"github.com/heartmarshall/crm-activity-backend/internal/config"
	"github.com/heartmarshall/crm-activity-backend/internal/domain"
	"github.com/heartmarshall/crm-activity-backend/internal/metrics"
	"github.com/heartmarshall/crm-activity-backend/internal/service/assignee"
	"github.com/heartmarshall/crm-activity-backend/internal/service/filterdropdown"
	"github.com/heartmarshall/crm-activity-backend/internal/service/viewfilter"
	"github.com/heartmarshall/crm-activity-backend/internal/transport/dataloader"
	"github.com/heartmarshall/crm-activity-backend/internal/transport/middleware"
	"github.com/heartmarshall/crm-activity-backend/internal/transport/rest"
)

type userSource interface {
	Search(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
}

type memberSource interface {
	GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]domain.WorkspaceMember, error)
}

type activitySource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error)
	UpdateOne(ctx context.Context, upd domain.RecordUpdate) error
}

// crmSource is the set of CRM reads and writes the picker needs, served
// either by PostgreSQL or by the CRM GraphQL API. Member and activity reads
// go through the per-request loaders.
type crmSource struct {
	users      userSource
	members    *dataloader.Members
	activities *dataloader.Activities
	repos      *dataloader.Repos
}

func newCRMSource(users userSource, members memberSource, activities activitySource) crmSource {
	return crmSource{
		users:      users,
		members:    dataloader.NewMembers(members),
		activities: dataloader.NewActivities(activities),
		repos:      &dataloader.Repos{Member: members, Activity: activities},
	}
}

// Run is the application entry point. It loads configuration, connects to
// the database, wires services and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("log_level", cfg.Log.Level),
		slog.String("crm_backend", cfg.CRM.Backend),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool, cfg.Database.MigrationsDir, logger); err != nil {
			return err
		}
	}

	m := metrics.New()
	components := map[string]rest.Pinger{"database": pool}

	var src crmSource
	switch cfg.CRM.Backend {
	case config.CRMBackendGraphQL:
		client, err := crmapi.New(cfg.CRM, logger)
		if err != nil {
			return fmt.Errorf("crm client: %w", err)
		}
		components["crm"] = client
		src = newCRMSource(client, client, client)
	default:
		src = newCRMSource(pguser.New(pool), pgmember.New(pool), pgactivity.New(pool))
	}

	assigneeSvc := assignee.NewService(logger, src.users, src.members, src.activities, m, cfg.CRM.SearchLimit)
	viewFilterSvc := viewfilter.NewService(logger, pgviewfilter.New(pool), postgres.NewTxManager(pool))
	registry := filterdropdown.NewRegistry(logger, m)
	jwt := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTTL)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	mux := http.NewServeMux()
	rest.Register(mux, rest.Handlers{
		Health:   rest.NewHealthHandler(components, BuildVersion()),
		Assignee: rest.NewAssigneeHandler(assigneeSvc, src.members, logger),
		Filters:  rest.NewFilterHandler(registry, viewFilterSvc, logger),
	}, middleware.Chain(
		middleware.Auth(jwt),
		middleware.RequireUser(),
		dataloader.Middleware(src.repos),
	))
	mux.Handle("GET /metrics", m.Handler())

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Metrics(m),
		middleware.CORS(cfg.CORS),
		limiter.Limit(cfg.RateLimit.RequestsPerMinute),
	)(mux)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return serve(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}

// serve runs srv until ctx is cancelled, then drains in-flight requests for
// at most shutdownTimeout.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
