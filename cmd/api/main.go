package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shijra-api/internal/config"
	"github.com/shijra-api/internal/infrastructure/awscfg"
	"github.com/shijra-api/internal/infrastructure/dynamo"
	genaiinfra "github.com/shijra-api/internal/infrastructure/genai"
	jwtinfra "github.com/shijra-api/internal/infrastructure/jwt"
	"github.com/shijra-api/internal/infrastructure/postgres"
	s3infra "github.com/shijra-api/internal/infrastructure/s3"
	"github.com/shijra-api/internal/infrastructure/sns"
	transporthttp "github.com/shijra-api/internal/transport/http"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := &transporthttp.Deps{Logger: logger}

	awsCfg, err := awscfg.Load(ctx, cfg, cfg.AWSRegion)
	if err != nil {
		logger.Fatal("aws config", zap.Error(err))
	}

	var db *gorm.DB
	switch cfg.StoreDriver {
	case config.StoreDriverDynamo:
		// Only notifications have a DynamoDB store; hint and DNA routes stay unmounted.
		dynamoClient := dynamo.NewClient(awsCfg, cfg.AWSEndpointURL)
		dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables, logger)
		users := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
		deps.NotificationRepo = dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications, users)
	case config.StoreDriverPostgres:
		db, err = postgres.Open(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("postgres", zap.Error(err))
		}
		if err := postgres.Migrate(db); err != nil {
			logger.Fatal("migrate", zap.Error(err))
		}
		deps.NotificationRepo = postgres.NewNotificationRepo(db)
		deps.HintRepo = postgres.NewHintRepo(db)
		deps.DNAUploadRepo = postgres.NewDNAUploadRepo(db)
	default:
		logger.Fatal("unknown STORE_DRIVER", zap.String("driver", cfg.StoreDriver))
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			logger.Warn("close postgres", zap.Error(err))
		}
	}()

	deps.Objects = s3infra.NewStore(s3infra.NewClient(awsCfg, cfg.AWSEndpointURL), cfg.S3BucketName)

	if cfg.SNSBroadcastTopicARN != "" {
		snsCfg, err := awscfg.Load(ctx, cfg, cfg.SNSRegion)
		if err != nil {
			logger.Warn("SNS fan-out disabled", zap.Error(err))
		} else {
			deps.Publisher = sns.NewPublisher(sns.NewClient(snsCfg, cfg.AWSEndpointURL), cfg.SNSBroadcastTopicARN)
		}
	}

	if cfg.GenAIAPIKey != "" {
		teller, err := genaiinfra.NewStoryteller(ctx, cfg.GenAIAPIKey, cfg.GenAIModel)
		if err != nil {
			logger.Warn("story generation unavailable", zap.Error(err))
		} else {
			deps.Storyteller = teller
		}
	} else {
		logger.Warn("GENAI_API_KEY not set, story generation will fail")
	}

	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		deps.JWTProvider = p
	} else {
		logger.Warn("JWT provider not available, DNA upload disabled", zap.Error(err))
	}

	router := transporthttp.NewRouter(ctx, cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.AppEnv),
			zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid LOG_LEVEL %q, using info\n", cfg.LogLevel)
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
