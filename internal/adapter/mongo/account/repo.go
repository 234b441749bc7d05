// Package account implements expiry sweeps over the MongoDB users collection.
package account

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	mongoadapter "github.com/heartmarshall/imagehub-sweeper/internal/adapter/mongo"
	"github.com/heartmarshall/imagehub-sweeper/internal/domain"
)

// Repo runs sweeps against one accounts collection.
type Repo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// New creates a repository over database.collection.
func New(client *mongo.Client, database, collection string) *Repo {
	return &Repo{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

// Apply executes the sweep as one DeleteMany or UpdateMany. Returns the
// number of deleted or modified documents.
func (r *Repo) Apply(ctx context.Context, sweep domain.Sweep, cutoff any) (int64, error) {
	filter := Filter(sweep, cutoff)

	switch sweep.Mode {
	case domain.ModePurge:
		res, err := r.coll.DeleteMany(ctx, filter)
		if err != nil {
			return 0, mongoadapter.MapError(err, "purge "+r.coll.Name())
		}
		return res.DeletedCount, nil

	case domain.ModeRedact:
		update, err := Unset(sweep.ClearFields)
		if err != nil {
			return 0, err
		}
		res, err := r.coll.UpdateMany(ctx, filter, update)
		if err != nil {
			return 0, mongoadapter.MapError(err, "redact "+r.coll.Name())
		}
		return res.ModifiedCount, nil
	}

	return 0, fmt.Errorf("mode %q: %w", sweep.Mode, domain.ErrConfiguration)
}

// Count returns how many documents Apply would affect at this cutoff.
func (r *Repo) Count(ctx context.Context, sweep domain.Sweep, cutoff any) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, Filter(sweep, cutoff))
	if err != nil {
		return 0, mongoadapter.MapError(err, "count "+r.coll.Name())
	}
	return n, nil
}

// Close disconnects the client.
func (r *Repo) Close(ctx context.Context) error {
	if err := r.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

// Filter matches documents whose expiry is strictly before cutoff. $lt never
// matches a missing field, so documents without the flow are skipped.
func Filter(sweep domain.Sweep, cutoff any) bson.D {
	f := bson.D{{Key: sweep.ExpiryField, Value: bson.D{{Key: "$lt", Value: cutoff}}}}
	if sweep.Guard != "" {
		f = append(f, bson.E{Key: sweep.Guard, Value: true})
	}
	return f
}

// Unset builds the $unset update removing fields.
func Unset(fields []string) (bson.D, error) {
	if len(fields) == 0 {
		return nil, domain.NewConfigError("clear_fields", "at least one required in redact mode")
	}
	unset := make(bson.D, 0, len(fields))
	for _, f := range fields {
		unset = append(unset, bson.E{Key: f, Value: ""})
	}
	return bson.D{{Key: "$unset", Value: unset}}, nil
}
