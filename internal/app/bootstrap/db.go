// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	notificationstore "github.com/dalemusser/azubihub/internal/app/store/notifications"
	"github.com/dalemusser/azubihub/internal/app/system/indexes"
	"github.com/dalemusser/azubihub/internal/app/system/notify"
	"github.com/dalemusser/azubihub/internal/app/system/storage"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and builds the backend
// dependencies (object storage, notification dispatcher) that handlers
// receive through DBDeps.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	db := client.Database(appCfg.MongoDatabase)

	files, err := buildFileStore(appCfg)
	if err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, err
	}

	notifier := notify.NewDispatcher(notificationstore.New(db), logger, appCfg.NotifyQueueSize)

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Files:         files,
		Notifier:      notifier,
	}, nil
}

func buildFileStore(appCfg AppConfig) (storage.Store, error) {
	switch appCfg.StorageType {
	case "s3":
		return storage.NewS3(storage.S3Config{
			Endpoint:  appCfg.StorageS3Endpoint,
			AccessKey: appCfg.StorageS3AccessKey,
			SecretKey: appCfg.StorageS3SecretKey,
			Bucket:    appCfg.StorageS3Bucket,
			UseSSL:    appCfg.StorageS3UseSSL,
			BaseURL:   appCfg.StorageS3BaseURL,
		})
	default:
		return storage.NewLocal(appCfg.StorageLocalPath, appCfg.StorageLocalURL)
	}
}

// EnsureSchema sets up indexes. Runs after ConnectDB, before Startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return indexes.EnsureAll(ctx, deps.MongoDatabase)
}
