// Package docstore opens the hosted document-store clients.
package docstore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/RS76448/attendencesystem/config"
)

// NewFirebaseApp initialises the Firebase app shared by Firestore and Auth.
// Without a credentials file the application default credentials are used.
func NewFirebaseApp(ctx context.Context, cfg *config.FirestoreConfig) (*firebase.App, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	return app, nil
}

// NewFirestore opens a Firestore client from app.
func NewFirestore(ctx context.Context, app *firebase.App, logger *zap.Logger) (*firestore.Client, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("open firestore: %w", err)
	}
	logger.Info("firestore connected")
	return client, nil
}

// NewMongo connects and pings MongoDB, returning the configured database.
func NewMongo(ctx context.Context, cfg *config.MongoConfig, logger *zap.Logger) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("mongo connected", zap.String("database", cfg.Database))
	return client.Database(cfg.Database), nil
}
