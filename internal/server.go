package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
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
	"go.uber.org/multierr"

	"github.com/2beens/gymlog/internal/auth"
	"github.com/2beens/gymlog/internal/backup"
	"github.com/2beens/gymlog/internal/calendar"
	"github.com/2beens/gymlog/internal/config"
	"github.com/2beens/gymlog/internal/datekey"
	"github.com/2beens/gymlog/internal/db"
	"github.com/2beens/gymlog/internal/journal"
	gymlogmcp "github.com/2beens/gymlog/internal/mcp"
	"github.com/2beens/gymlog/internal/media"
	"github.com/2beens/gymlog/internal/middleware"
	"github.com/2beens/gymlog/internal/misc"
	"github.com/2beens/gymlog/internal/social"
	"github.com/2beens/gymlog/internal/storage"
	"github.com/2beens/gymlog/internal/telemetry/metrics"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
)

const sessionsCleanupInterval = 8 * time.Hour

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	clock       datekey.Clock
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter

	loginChecker auth.Checker
	authService  *auth.Service

	journal    *journal.Service
	diskStore  *media.DiskStore // nil when media lives in S3
	backups    *backup.Service
	socialRepo *social.Repo
	publisher  *social.Publisher
	feed       *social.Feed
	midnight   *calendar.MidnightWatcher

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()

	cancelBackground context.CancelFunc
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	DBUser                  string
	DBPassword              string
	RedisPassword           string
	S3AccessKey             string
	S3SecretKey             string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	dbParams := db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         params.DBUser,
		DBPassword:     params.DBPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	}
	if err := db.MigrateUp(dbParams.ConnString()); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	dbPool, err := db.NewDBPool(ctx, dbParams)
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("gymlog", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymlog-backend", rdb)
	if err != nil {
		return nil, err
	}

	var (
		mediaStore media.Store
		diskStore  *media.DiskStore
	)
	switch cfg.MediaBackend {
	case config.MediaBackendS3:
		mediaStore, err = media.NewS3Store(ctx, media.S3Params{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: params.S3AccessKey,
			SecretKey: params.S3SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("new s3 media store: %w", err)
		}
	default:
		diskStore, err = media.NewDiskStore(cfg.MediaDiskRoot, "/media/raw/")
		if err != nil {
			return nil, fmt.Errorf("new disk media store: %w", err)
		}
		mediaStore = diskStore
	}
	log.Debugf("media backend: %s", cfg.MediaBackend)

	backupRepo := backup.NewRepo(dbPool)
	backupService := backup.NewService(
		backupRepo,
		backup.NewDebouncer(backupRepo, cfg.BackupDebounce.Duration, metricsManager),
	)

	socialRepo := social.NewRepo(dbPool)
	publisher := social.NewPublisher(socialRepo, metricsManager)
	feed := social.NewFeed(socialRepo, cfg.FeedCacheSize, cfg.FeedCacheTTL.Duration)

	clock := datekey.RealClock{}
	journalService := journal.NewService(journal.Params{
		KV:             storage.NewRedisKV(rdb),
		KeyPrefix:      journal.UserKeyPrefix,
		Clock:          clock,
		Backups:        backupService,
		Publisher:      publisher,
		Media:          mediaStore,
		MetricsManager: metricsManager,
	})

	midnight := calendar.NewMidnightWatcher(time.Local, clock)
	// feed cache keys carry the day, old ones are never read again
	midnight.OnDayChange(func(today string) {
		log.Debugf("new day [%s], clearing feed cache", today)
		feed.Clear()
	})

	return &Server{
		config:      cfg,
		clock:       clock,
		dbPool:      dbPool,
		redisClient: rdb,
		rateLimiter: redis_rate.NewLimiter(rdb),
		versionInfo: params.VersionInfo,

		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),
		authService:  auth.NewAuthService(auth.NewUsersRepo(dbPool), auth.DefaultTTL, rdb),

		journal:    journalService,
		diskStore:  diskStore,
		backups:    backupService,
		socialRepo: socialRepo,
		publisher:  publisher,
		feed:       feed,
		midnight:   midnight,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) healthChecks() map[string]misc.HealthCheck {
	checks := map[string]misc.HealthCheck{}
	if s.dbPool != nil {
		checks["postgres"] = s.dbPool.Ping
	}
	if s.redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return s.redisClient.Ping(ctx).Err()
		}
	}
	return checks
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gymlog-router"))

	miscHandler := misc.NewHandler(s.versionInfo, s.healthChecks())
	miscHandler.SetupRoutes(r)

	authHandler := auth.NewHandler(s.authService, s.journal)
	authSubrouter := r.PathPrefix("/a").Subrouter()
	authSubrouter.HandleFunc("/register", authHandler.HandleRegister).Methods("POST", "OPTIONS").Name("register")
	authSubrouter.HandleFunc("/login", authHandler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	authSubrouter.HandleFunc("/logout", authHandler.HandleLogout).Methods("GET", "OPTIONS").Name("logout")
	authSubrouter.HandleFunc("/account", authHandler.HandleDeleteAccount).Methods("DELETE", "OPTIONS").Name("delete-account")
	// rate limit the /a endpoints per client ip
	authSubrouter.Use(middleware.RateLimit(s.rateLimiter, "auth", s.config.LoginRateLimitAllowedPerMin, s.metricsManager))

	// a nil *DiskStore must not reach the handler as a non-nil opener
	var journalHandler *journal.Handler
	if s.diskStore != nil {
		journalHandler = journal.NewHandler(s.journal, s.diskStore)
	} else {
		journalHandler = journal.NewHandler(s.journal, nil)
	}
	journalHandler.SetupRoutes(r)

	socialHandler := social.NewHandler(s.socialRepo, s.feed, s.clock)
	socialHandler.SetupRoutes(r)

	r.PathPrefix("/mcp").Handler(gymlogmcp.NewHTTPHandler(s.journal)).Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler: router,
		Addr:    ipAndPort,
		// media uploads go up to 200MB
		WriteTimeout: 5 * time.Minute,
		ReadTimeout:  5 * time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
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

	if err := s.midnight.Start(); err != nil {
		log.Errorf("failed to start midnight watcher: %s", err)
	}

	bgCtx, cancel := context.WithCancel(ctx)
	s.cancelBackground = cancel
	go s.cleanSessionsPeriodically(bgCtx)

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) cleanSessionsPeriodically(ctx context.Context) {
	ticker := time.NewTicker(sessionsCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.authService.ScanAndClean(ctx)
		}
	}
}

func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var shutdownErr error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			shutdownErr = multierr.Append(shutdownErr, fmt.Errorf("http server shutdown: %w", err))
		}
		log.Warnln("server shut down")
	}

	if s.cancelBackground != nil {
		s.cancelBackground()
	}
	s.midnight.Stop()

	// pending debounced backups and publishes still need the pools
	log.Debugln("flushing pending backups ...")
	s.backups.Flush(ctx)
	s.publisher.Wait()

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			shutdownErr = multierr.Append(shutdownErr, fmt.Errorf("close redis client: %w", err))
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			shutdownErr = multierr.Append(shutdownErr, fmt.Errorf("metrics server shutdown: %w", err))
		}
		log.Warnln("metrics server shut down")
	}

	return shutdownErr
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
