package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/capra/internal/domain/models"
	"github.com/mamadbah2/capra/internal/repository/blob"
)

const (
	blobCollection   = "blobs"
	reportCollection = "farm_reports"
)

var _ blob.Store = (*MongoDBRepository)(nil)

// MongoDBRepository stores collection blobs and archived reports in MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
	now    func() time.Time
}

type blobDocument struct {
	Key       string    `bson:"_id"`
	Payload   []byte    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return newRepository(client, dbName), nil
}

func newRepository(client *mongo.Client, dbName string) *MongoDBRepository {
	return &MongoDBRepository{
		client: client,
		dbName: dbName,
		now:    time.Now,
	}
}

// Get loads the payload stored under key.
func (r *MongoDBRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	collection := r.client.Database(r.dbName).Collection(blobCollection)

	var doc blobDocument
	err := collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load blob %s: %w", key, err)
	}
	return doc.Payload, true, nil
}

// Put replaces the payload stored under key, inserting it when absent.
func (r *MongoDBRepository) Put(ctx context.Context, key string, payload []byte) error {
	collection := r.client.Database(r.dbName).Collection(blobCollection)

	doc := blobDocument{Key: key, Payload: payload, UpdatedAt: r.now().UTC()}
	_, err := collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to store blob %s: %w", key, err)
	}
	return nil
}

// SaveFarmReport archives a farm report.
func (r *MongoDBRepository) SaveFarmReport(ctx context.Context, report models.FarmReport) error {
	collection := r.client.Database(r.dbName).Collection(reportCollection)
	_, err := collection.InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to insert farm report: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
