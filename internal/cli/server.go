package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tutorial-quiz-service/internal/app"
	"tutorial-quiz-service/internal/config"
	"tutorial-quiz-service/internal/generator"
	"tutorial-quiz-service/internal/infra/memory"
	inframongo "tutorial-quiz-service/internal/infra/mongo"
	infrapg "tutorial-quiz-service/internal/infra/postgres"
	infraredis "tutorial-quiz-service/internal/infra/redis"
	transport "tutorial-quiz-service/internal/transport/http"
)

const (
	defaultNamespace       = "tutquiz"
	defaultCacheTTL        = 24 * time.Hour
	defaultRateLimitMax    = 5
	defaultRateLimitWindow = 60 * time.Second
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the tutorial quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	namespace := cfg.Quiz.Namespace
	if namespace == "" {
		namespace = defaultNamespace
	}
	cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, defaultCacheTTL)
	rateLimitMax := int64(cfg.Quiz.RateLimitMax)
	if rateLimitMax <= 0 {
		rateLimitMax = defaultRateLimitMax
	}
	rateLimitWindow := config.TTLDuration(cfg.Quiz.RateLimitWindow, defaultRateLimitWindow)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var limiter app.RateLimiter
	var cache app.ResultCache
	if redisClient != nil {
		limiter = infraredis.NewRateLimiter(redisClient, namespace, rateLimitMax, rateLimitWindow)
		cache = infraredis.NewResultCache(redisClient, namespace, cacheTTL)
	} else {
		limiter = memory.NewRateLimiter(rateLimitMax, rateLimitWindow)
		cache = memory.NewResultCache(cacheTTL)
	}

	var content app.ContentProvider = memory.NewStaticContentProvider(sampleTutorials())
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		content = infrapg.NewTutorialProvider(pool)
	}

	var prefs app.PreferencesProvider = memory.NewStaticPreferencesProvider(nil)
	if cfg.Mongo.URI != "" {
		mongoClient, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return err
		}
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		database := cfg.Mongo.Database
		if database == "" {
			database = "tutorials"
		}
		prefs = inframongo.NewPreferencesProvider(mongoClient.Database(database))
	}

	// Fail fast: the server is useless without a generator credential.
	apiKey := cfg.Anthropic.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	questionGen, err := generator.NewAnthropicGenerator(apiKey, cfg.Anthropic.Model)
	if err != nil {
		return err
	}

	orchestrator := app.NewOrchestrator(app.OrchestratorDeps{
		Limiter:     limiter,
		Cache:       cache,
		Content:     content,
		Preferences: prefs,
		Generator:   questionGen,
		ExtractText: app.StripMarkup,
		Logger:      log.Default(),
	})

	handler := transport.NewHandler(orchestrator)
	hub := transport.NewPreferenceHub()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/preferences", handler.Preferences)
	mux.HandleFunc("/assessment", handler.Assessment)
	mux.HandleFunc("/ws", hub.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // generation can be slow
	}

	go func() {
		log.Printf("starting tutorial quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleTutorials provides demo content for redis/postgres-less runs; swap in
// the Postgres provider by configuring postgres.url.
func sampleTutorials() map[string]string {
	return map[string]string{
		"go-basics": "<h1>Go Basics</h1><p>Go programs start in the main package. " +
			"The <code>go</code> keyword launches a goroutine, and channels let goroutines " +
			"communicate safely without explicit locks.</p>",
	}
}
