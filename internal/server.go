package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/formfit/internal/config"
	"github.com/2beens/formfit/internal/db"
	"github.com/2beens/formfit/internal/exercise"
	"github.com/2beens/formfit/internal/middleware"
	"github.com/2beens/formfit/internal/misc"
	"github.com/2beens/formfit/internal/telemetry/metrics"
	"github.com/2beens/formfit/internal/telemetry/tracing"
	"github.com/2beens/formfit/internal/tracking"
	"github.com/2beens/formfit/internal/workouts"
)

const defaultSessionCleanupInterval = time.Minute

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	apiSecret         string // shared with the clients, empty disables auth
	versionInfo       string

	config     *config.Config
	dbPool     *pgxpool.Pool
	sqliteRepo *workouts.SqliteRepo

	redisClient     *redis.Client
	rateLimiter     middleware.RequestRateLimiter
	snapshotStore   *tracking.SnapshotStore
	sessionsManager *tracking.Manager
	workoutsService *workouts.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	RedisPassword           string
	PostgresPassword        string
	APISecret               string
	VersionInfo             string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	s := &Server{
		config:      cfg,
		apiSecret:   params.APISecret,
		versionInfo: params.VersionInfo,
	}

	var collectors []prometheus.Collector
	var repo workouts.Repo
	switch cfg.Storage {
	case config.StoragePostgres:
		poolParams := db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		}
		if err := db.RunMigrations(poolParams.DSN()); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}

		dbPool, err := db.NewDBPool(ctx, poolParams)
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		s.dbPool = dbPool
		collectors = append(collectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
		repo = workouts.NewPsqlRepo(dbPool)
	case config.StorageSqlite:
		sqliteRepo, err := workouts.NewSqliteRepo(cfg.SqlitePath)
		if err != nil {
			return nil, fmt.Errorf("new sqlite repo: %w", err)
		}
		s.sqliteRepo = sqliteRepo
		repo = sqliteRepo
	default:
		return nil, fmt.Errorf("unknown storage: %q", cfg.Storage)
	}

	s.promRegistry = metrics.SetupPrometheus(collectors...)
	s.metricsManager = metrics.NewManager("formfit", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	s.redisClient = redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := s.redisClient.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}
	s.rateLimiter = redis_rate.NewLimiter(s.redisClient)
	s.snapshotStore = tracking.NewSnapshotStore(s.redisClient, cfg.SessionSnapshotTTL.Duration)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "formfit-backend", s.redisClient)
	if err != nil {
		return nil, err
	}
	s.otelShutdown = otelShutdown

	s.workoutsService = workouts.NewService(
		repo,
		workouts.NewStatsCache(cfg.StatsCacheSizeBytes, cfg.StatsCacheExpireSeconds),
	)
	s.sessionsManager = tracking.NewManager(tracking.ManagerParams{
		Workouts:          s.workoutsService,
		Snapshots:         s.snapshotStore,
		Metrics:           s.metricsManager,
		Side:              exercise.Limb(strings.ToLower(cfg.TrackedSide)),
		CaloriesPerMinute: cfg.CaloriesPerMinute,
		IdleTimeout:       cfg.SessionIdleTimeout.Duration,
	})

	return s, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("formfit-router"))

	// untyped nil when redis is not used, so the handler skips remote lookups
	var snapshotReader interface {
		Load(ctx context.Context, id string) (*tracking.Snapshot, error)
		ActiveIDs(ctx context.Context) ([]string, error)
	}
	if s.snapshotStore != nil {
		snapshotReader = s.snapshotStore
	}
	trackingHandler := tracking.NewHandler(s.sessionsManager, snapshotReader)
	trackingHandler.SetupRoutes(r, s.rateLimiter, s.metricsManager, s.config.SessionCreateRateLimitPerMin)

	workoutsHandler := workouts.NewHandler(s.workoutsService)
	r.HandleFunc("/workouts/user/{userId}", workoutsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts/user/{userId}/stats", workoutsHandler.HandleStats).Methods("GET", "OPTIONS").Name("workouts-stats")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")

	miscHandler := misc.NewHandler(s.versionInfo, s.healthDependencies())
	miscHandler.SetupRoutes(r)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.apiSecret)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) healthDependencies() map[string]misc.Pinger {
	deps := make(map[string]misc.Pinger)
	if s.dbPool != nil {
		deps["postgres"] = s.dbPool
	}
	if s.sqliteRepo != nil {
		deps["sqlite"] = s.sqliteRepo
	}
	if s.redisClient != nil {
		deps["redis"] = misc.PingerFunc(func(ctx context.Context) error {
			return s.redisClient.Ping(ctx).Err()
		})
	}
	return deps
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	cleanupInterval := s.config.SessionCleanupInterval.Duration
	if cleanupInterval <= 0 {
		cleanupInterval = defaultSessionCleanupInterval
	}
	go s.sessionsManager.RunCleanup(ctx, cleanupInterval)

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if active := s.sessionsManager.Active(); active > 0 {
		log.Warnf("%d tracking sessions still open, they will be lost", active)
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if s.sqliteRepo != nil {
		if err := s.sqliteRepo.Close(); err != nil {
			log.Errorf("failed to close sqlite db: %s", err)
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
