package app

import (
	"context"
	"time"

	"go-leave/internal/blob"
	"go-leave/internal/middleware"
	"go-leave/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp connects the infrastructure, migrates the schema and registers every route on router.
// The returned cleanup closes the connections.
func BuildApp(router *gin.Engine, cfg *Config) (func(), error) {
	logger := zap.L().Named("app")

	// 1. Setup Infrastructure
	gormDB, err := connectDatabase(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	redisClient, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, 5)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	minioClient, err := connection.ConnectMinioWithRetry(connection.MinioConfig{
		Endpoint:        cfg.Storage.Endpoint,
		AccessKeyID:     cfg.Storage.AccessKey,
		SecretAccessKey: cfg.Storage.SecretKey,
		Bucket:          cfg.Storage.Bucket,
		Region:          cfg.Storage.Region,
		UseSSL:          boolValue(cfg.Storage.UseSSL),
	}, 5)
	if err != nil {
		_ = redisClient.Close()
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("object storage ready", zap.String("bucket", cfg.Storage.Bucket))

	cleanup := func() {
		_ = redisClient.Close()
		_ = sqlDB.Close()
	}

	if boolValue(cfg.Database.MigrateOnStart) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := Migrate(ctx, gormDB); err != nil {
			cleanup()
			return nil, err
		}
	}

	// 2. Global middleware
	router.MaxMultipartMemory = cfg.App.MaxUploadMB << 20
	router.Use(middleware.ContextLogger(zap.L()))

	// 3. Register Modules & Routes
	store := blob.NewMinioStore(minioClient, cfg.Storage.Bucket)
	if err := registerModules(router, cfg, sqlDB, gormDB, redisClient, store); err != nil {
		cleanup()
		return nil, err
	}

	return cleanup, nil
}

func connectDatabase(cfg *Config) (*gorm.DB, error) {
	return connection.ConnectGORMWithRetry(
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
		5,
	)
}
