package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/sbilibin2017/microblog/internal/config"
	"github.com/sbilibin2017/microblog/internal/jobs"
	"github.com/sbilibin2017/microblog/internal/logger"
	"github.com/sbilibin2017/microblog/internal/migrations"
	"github.com/sbilibin2017/microblog/internal/models"
	"github.com/sbilibin2017/microblog/internal/repositories"
	"github.com/sbilibin2017/microblog/internal/search"
	"github.com/sbilibin2017/microblog/internal/services"
	"github.com/sbilibin2017/microblog/internal/uow"
	"github.com/sbilibin2017/microblog/internal/worker"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

func main() {
	printBuildInfo()
	configPath, reindex := parseFlags()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg, reindex); err != nil {
		log.Fatalf("worker stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s, Commit: %s, Build: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags returns the config file path and whether to rebuild the
// search index and exit instead of consuming jobs.
func parseFlags() (string, bool) {
	c := flag.String("c", "config.env", "Path to configuration file")
	reindex := flag.Bool("reindex", false, "Rebuild the search index from the database and exit")
	flag.Parse()
	return *c, *reindex
}

// run connects to PostgreSQL, Redis and Kafka, then either rebuilds the
// search index or consumes jobs until a shutdown signal arrives.
func run(ctx context.Context, cfg *config.Config, reindex bool) error {
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()

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
	postRepo := repositories.NewPostRepository(db, uow.TxFromContext)

	if reindex {
		n, err := services.NewSearchService(index, postRepo, cfg.PostsPerPage).Reindex(ctx)
		if err != nil {
			return fmt.Errorf("reindex failed after %d posts: %w", n, err)
		}
		logger.Log.Infof("Reindexed %d posts", n)
		return nil
	}

	exportsWriter := jobs.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaExportsTopic)
	defer exportsWriter.Close()

	notifications := services.NewNotificationService(repositories.NewNotificationRepository(db, uow.TxFromContext))
	tasks := services.NewTaskService(
		repositories.NewTaskRepository(db, uow.TxFromContext),
		nil,
		jobs.NewMetaStore(rdb),
		notifications,
	)

	w := worker.New(worker.NewKafkaReader(cfg.KafkaBrokers, cfg.KafkaTasksTopic, cfg.KafkaGroupID))
	w.Handle(models.TaskExportPosts, worker.NewExportPosts(
		postRepo,
		tasks,
		uow.NewTransactor(db, index),
		jobs.NewOutbox(exportsWriter),
	))

	lis, err := net.Listen("tcp", ":"+cfg.WorkerHealthPort)
	if err != nil {
		return fmt.Errorf("health listener: %w", err)
	}
	health := worker.NewHealth()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return health.Serve(gctx, lis) })
	g.Go(func() error {
		health.SetServing(true)
		defer health.SetServing(false)
		logger.Log.Infow("worker consuming", "topic", cfg.KafkaTasksTopic, "group", cfg.KafkaGroupID)
		return w.Run(gctx)
	})

	err = g.Wait()
	logger.Log.Info("worker stopped")
	return err
}
