package testhelper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Database is the database every test collection lives in.
const Database = "imagehub_test"

var (
	once      sync.Once
	sharedURI string
	initErr   error
)

// SetupTestDB starts a shared MongoDB container (once for the entire test
// run) and returns its URI together with a connected client that is
// disconnected via t.Cleanup.
func SetupTestDB(t *testing.T) (string, *mongo.Client) {
	t.Helper()

	once.Do(func() {
		sharedURI, initErr = startContainer()
	})
	if initErr != nil {
		t.Fatalf("testhelper: failed to setup test mongo: %v", initErr)
	}

	client, err := mongo.Connect(options.Client().ApplyURI(sharedURI))
	if err != nil {
		t.Fatalf("testhelper: connect: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	})

	return sharedURI, client
}

// Collection returns a uniquely named collection, dropped on cleanup. Sweeps
// touch every expired document, so parallel tests each get their own.
func Collection(t *testing.T, client *mongo.Client) *mongo.Collection {
	t.Helper()

	coll := client.Database(Database).Collection("users_" + uuid.New().String()[:8])
	t.Cleanup(func() {
		_ = coll.Drop(context.Background())
	})
	return coll
}

// Seed inserts docs into coll.
func Seed(t *testing.T, coll *mongo.Collection, docs ...bson.M) {
	t.Helper()

	if _, err := coll.InsertMany(context.Background(), docs); err != nil {
		t.Fatalf("testhelper: seed %s: %v", coll.Name(), err)
	}
}

// Find returns the document with _id, or nil if it does not exist.
func Find(t *testing.T, coll *mongo.Collection, id any) bson.M {
	t.Helper()

	var doc bson.M
	err := coll.FindOne(context.Background(), bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		t.Fatalf("testhelper: find %v: %v", id, err)
	}
	return doc
}

func startContainer() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor: wait.ForLog("Waiting for connections").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}

	return fmt.Sprintf("mongodb://%s:%s", host, port.Port()), nil
}
