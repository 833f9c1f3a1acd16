// Package mongodb registers the "mongodb" post store.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/ncobase/postfeed/feed/data/repository"
	"github.com/ncobase/postfeed/feed/structs"
	"github.com/ncobase/postfeed/logging/logger"
)

// DefaultDatabase is used when the URI names no database.
const DefaultDatabase = "postfeed"

type driver struct{}

func (driver) Name() string { return "mongodb" }

func (driver) Open(ctx context.Context, opts repository.Options) (repository.PostRepository, error) {
	if opts.Data.MongoDB == nil || opts.Data.MongoDB.URI == "" {
		return nil, errors.New("mongodb: uri is empty")
	}
	return Open(ctx, opts.Data.MongoDB.URI, opts.Collection, opts.Logger)
}

func init() {
	repository.Register(driver{})
}

// document is the stored shape of a post.
type document struct {
	ID          primitive.ObjectID `bson:"_id"`
	Text        string             `bson:"text"`
	ImageURL    string             `bson:"imageUrl,omitempty"`
	YouTubeLink string             `bson:"youtubeLink,omitempty"`
	Timestamp   time.Time          `bson:"timestamp"`
	UserID      string             `bson:"userId"`
	UserName    string             `bson:"userName"`
}

func (d *document) post() *structs.Post {
	return &structs.Post{
		ID:          d.ID.Hex(),
		Text:        d.Text,
		ImageURL:    d.ImageURL,
		YouTubeLink: d.YouTubeLink,
		Timestamp:   d.Timestamp.UTC(),
		UserID:      d.UserID,
		UserName:    d.UserName,
	}
}

// Store is a post collection.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *logger.Logger
}

// Open connects to uri and ensures the timestamp index on the collection.
func Open(ctx context.Context, uri, collection string, log *logger.Logger) (*Store, error) {
	dbName, err := databaseName(uri)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb: failed to connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb: failed to ping: %w", err)
	}

	s := &Store{
		client:     client,
		collection: client.Database(dbName).Collection(collection),
		logger:     log,
	}

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}},
	}
	if _, err := s.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		log.Warn(ctx, "failed to create index on timestamp", "collection", collection, "error", err)
	}
	return s, nil
}

// databaseName returns the database named in the URI path.
func databaseName(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("mongodb: invalid uri: %w", err)
	}
	if cs.Database == "" {
		return DefaultDatabase, nil
	}
	return cs.Database, nil
}

// ListAll returns every post, newest first.
func (s *Store) ListAll(ctx context.Context) ([]*structs.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrStoreRead, err)
	}
	defer cursor.Close(ctx)

	var docs []*document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrStoreRead, err)
	}

	posts := make([]*structs.Post, len(docs))
	for i, d := range docs {
		posts[i] = d.post()
	}
	return posts, nil
}

// appendUpdate builds the upsert that creates a post. The server sets the
// timestamp with $currentDate.
func appendUpdate(p *structs.Post) bson.M {
	return bson.M{
		"$set": bson.M{
			"text":        p.Text,
			"imageUrl":    p.ImageURL,
			"youtubeLink": p.YouTubeLink,
			"userId":      p.UserID,
			"userName":    p.UserName,
		},
		"$currentDate": bson.M{"timestamp": bson.M{"$type": "date"}},
	}
}

// Append upserts p under a fresh id and returns the stored document.
func (s *Store) Append(ctx context.Context, p *structs.Post) (*structs.Post, error) {
	id := primitive.NewObjectID()

	result := s.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		appendUpdate(p),
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)

	var d document
	if err := result.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrStoreWrite, err)
	}
	return d.post(), nil
}

// Ping checks the primary.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
