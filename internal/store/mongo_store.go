package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/amos-ugbedah/Jason-E-Commerce/internal/domain"
)

// MongoStore keeps the serialized cart snapshot in a single document keyed
// by the storage key, upserted on every save.
type MongoStore struct {
	collection *mongo.Collection
	key        string
}

type cartDocument struct {
	ID        string    `bson:"_id"`
	Payload   []byte    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func NewMongoStore(db *mongo.Database, key string) *MongoStore {
	if key == "" {
		key = DefaultKey
	}
	return &MongoStore{
		collection: db.Collection("carts"),
		key:        key,
	}
}

func (m *MongoStore) Load(ctx context.Context) (*domain.CartSnapshot, error) {
	var doc cartDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": m.key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load cart snapshot: %w", err)
	}

	var snap domain.CartSnapshot
	if err2 := json.Unmarshal(doc.Payload, &snap); err2 != nil {
		return nil, ErrSnapshotNotFound
	}

	return &snap, nil
}

func (m *MongoStore) Save(ctx context.Context, snap domain.CartSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal cart snapshot failed: %w", err)
	}

	update := bson.M{"$set": cartDocument{
		ID:        m.key,
		Payload:   payload,
		UpdatedAt: time.Now(),
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, bson.M{"_id": m.key}, update, opts); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}

// ConnectMongoDB opens and pings a MongoDB connection for the cart store.
func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}
