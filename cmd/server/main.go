package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/sbilibin2017/microblog/internal/config"
	_ "github.com/sbilibin2017/microblog/internal/docs"
	"github.com/sbilibin2017/microblog/internal/facades"
	"github.com/sbilibin2017/microblog/internal/handlers"
	"github.com/sbilibin2017/microblog/internal/jobs"
	"github.com/sbilibin2017/microblog/internal/jwt"
	"github.com/sbilibin2017/microblog/internal/language"
	"github.com/sbilibin2017/microblog/internal/logger"
	"github.com/sbilibin2017/microblog/internal/middlewares"
	"github.com/sbilibin2017/microblog/internal/migrations"
	"github.com/sbilibin2017/microblog/internal/repositories"
	"github.com/sbilibin2017/microblog/internal/search"
	"github.com/sbilibin2017/microblog/internal/services"
	"github.com/sbilibin2017/microblog/internal/uow"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

// @title microblog API
// @version 1.0.0
// @description Microblog with a social graph, full-text search, notifications and background tasks
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s, Commit: %s, Build: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// app holds the services the router exposes.
type app struct {
	tokens        *jwt.JWT
	tx            *uow.Transactor
	auth          *services.AuthService
	users         *services.UserService
	graph         *services.GraphService
	posts         *services.PostService
	messages      *services.MessageService
	notifications *services.NotificationService
	tasks         *services.TaskService
	search        *services.SearchService
	health        []handlers.HealthCheck
}

// newRouter wires routes to handlers. Mutating routes run inside a
// transaction so search index updates follow the commit. Task launch
// stays outside: the task row must be committed before the job is
// published.
func newRouter(a *app, swaggerURL string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Named("http")))

	txm := middlewares.TxMiddleware(a.tx)

	r.Get("/healthz", handlers.NewHealthHandler(a.health...))
	r.Post("/login", handlers.NewLoginHandler(a.auth))
	r.Post("/reset_password_request", handlers.NewResetPasswordRequestHandler(a.auth))
	r.Group(func(r chi.Router) {
		r.Use(txm)
		r.Post("/register", handlers.NewRegisterHandler(a.auth))
		r.Post("/reset_password/{token}", handlers.NewResetPasswordHandler(a.auth))
	})

	r.Group(func(r chi.Router) {
		r.Use(middlewares.AuthMiddleware(a.tokens, a.users))

		r.Get("/index", handlers.NewFeedHandler(a.posts))
		r.Get("/explore", handlers.NewExploreHandler(a.posts))
		r.Get("/user/{username}", handlers.NewUserHandler(a.users, a.posts))
		r.Get("/messages/unread_count", handlers.NewUnreadCountHandler(a.messages))
		r.Get("/notifications", handlers.NewNotificationsHandler(a.notifications))
		r.Get("/search", handlers.NewSearchHandler(a.search))
		r.Get("/tasks", handlers.NewTasksHandler(a.tasks))
		r.Post("/export_posts", handlers.NewExportPostsHandler(a.tasks))
		r.Post("/admin/reindex", handlers.NewReindexHandler(a.search))

		r.Group(func(r chi.Router) {
			r.Use(txm)
			r.Post("/index", handlers.NewCreatePostHandler(a.posts))
			r.Delete("/post/{id}", handlers.NewDeletePostHandler(a.posts))
			r.Post("/edit_profile", handlers.NewEditProfileHandler(a.users))
			r.Post("/follow/{username}", handlers.NewFollowHandler(a.graph))
			r.Post("/unfollow/{username}", handlers.NewUnfollowHandler(a.graph))
			r.Post("/send_message/{username}", handlers.NewSendMessageHandler(a.messages))
			r.Get("/messages", handlers.NewMessagesHandler(a.messages))
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(swaggerURL)))
	return r
}

// newApp builds repositories and services over db, the search index and
// the Kafka writers.
func newApp(cfg *config.Config, db *sqlx.DB, index *search.RedisIndex, meta *jobs.MetaStore, tasksWriter, exportsWriter jobs.Writer) *app {
	tokens := jwt.New(
		jwt.WithSecretKey(cfg.JWTSecretKey),
		jwt.WithExpiration(cfg.JWTExpiration),
		jwt.WithResetExpiration(cfg.ResetTokenExp),
	)

	userRepo := repositories.NewUserRepository(db, uow.TxFromContext)
	followRepo := repositories.NewFollowRepository(db, uow.TxFromContext)
	postRepo := repositories.NewPostRepository(db, uow.TxFromContext)
	messageRepo := repositories.NewMessageRepository(db, uow.TxFromContext)
	notificationRepo := repositories.NewNotificationRepository(db, uow.TxFromContext)
	taskRepo := repositories.NewTaskRepository(db, uow.TxFromContext)

	notifications := services.NewNotificationService(notificationRepo)

	return &app{
		tokens:        tokens,
		tx:            uow.NewTransactor(db, index),
		auth:          services.NewAuthService(userRepo, tokens, jobs.NewOutbox(exportsWriter)),
		users:         services.NewUserService(userRepo, followRepo),
		graph:         services.NewGraphService(userRepo, followRepo),
		posts:         services.NewPostService(userRepo, postRepo, language.NewDetector(), cfg.PostsPerPage),
		messages:      services.NewMessageService(userRepo, messageRepo, notifications, cfg.PostsPerPage),
		notifications: notifications,
		tasks:         services.NewTaskService(taskRepo, jobs.NewDispatcher(tasksWriter), meta, notifications),
		search:        services.NewSearchService(index, postRepo, cfg.PostsPerPage),
	}
}

// run initializes the logger, database, Redis, Kafka writers, the worker
// health client and the HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg *config.Config) error {
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.PostgresDSN())
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PostgresMaxOpenConns)
	db.SetMaxIdleConns(cfg.PostgresMaxIdleConns)

	if err := migrations.Up(ctx, db); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	defer rdb.Close()

	index := search.NewRedisIndex(rdb)
	if err := index.Ping(ctx); err != nil {
		// Search degrades to 503s; the rest of the API keeps working.
		logger.Log.Warnw("Redis unavailable at startup", "addr", cfg.RedisAddr(), "error", err)
	}

	tasksWriter := jobs.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTasksTopic)
	defer tasksWriter.Close()
	exportsWriter := jobs.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaExportsTopic)
	defer exportsWriter.Close()

	// Connect to the worker's health service
	conn, err := grpc.NewClient(cfg.WorkerHealthAddr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("worker health client: %w", err)
	}
	defer conn.Close()

	a := newApp(cfg, db, index, jobs.NewMetaStore(rdb), tasksWriter, exportsWriter)
	a.health = []handlers.HealthCheck{
		{Name: "database", Ping: db.PingContext},
		{Name: "search", Ping: index.Ping},
		{Name: "worker", Ping: facades.NewWorkerHealthGRPCFacade(healthpb.NewHealthClient(conn)).Ping},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           newRouter(a, fmt.Sprintf("http://%s/swagger/doc.json", cfg.HTTPAddr())),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s", cfg.HTTPAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
