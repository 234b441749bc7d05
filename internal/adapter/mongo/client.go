// Package mongo holds the MongoDB connection and error mapping shared by the
// document-store repositories.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/heartmarshall/imagehub-sweeper/internal/config"
	"github.com/heartmarshall/imagehub-sweeper/internal/domain"
)

// NewClient connects to MongoDB using MongoConfig and pings the primary for
// fail-fast validation. A malformed URI is a configuration error; an
// unreachable or unauthenticated server is a connection error.
func NewClient(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("imagehub-sweeper").
		SetMaxPoolSize(1)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w: %w", cfg.Redacted(), domain.ErrConfiguration, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("ping %s: %w: %w", cfg.Redacted(), domain.ErrConnection, err)
	}

	return client, nil
}
