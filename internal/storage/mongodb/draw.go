package mongodb

import (
	"context"
	"errors"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lotto_fetcher/internal/domain"
)

const DefaultCollection = "draws"

// DrawStore keeps one document per draw, keyed by the draw id as a string.
type DrawStore struct {
	collection *mongo.Collection
}

type drawDocument struct {
	Key         string `bson:"_id"`
	domain.Draw `bson:",inline"`
}

func NewDrawStore(db *mongo.Database, collection string) *DrawStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &DrawStore{collection: db.Collection(collection)}
}

// EnsureIndexes creates the descending id index the cursor query sorts on.
func (s *DrawStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: -1}},
		Options: options.Index().SetName("id_desc"),
	})
	return err
}

func (s *DrawStore) Latest(ctx context.Context) (domain.Cursor, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "id", Value: -1}}).
		SetProjection(bson.M{"id": 1, "totalSellAmount": 1})

	var row struct {
		ID              int   `bson:"id"`
		TotalSellAmount int64 `bson:"totalSellAmount"`
	}
	err := s.collection.FindOne(ctx, bson.M{}, opts).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Cursor{}, nil
	}
	if err != nil {
		return domain.Cursor{}, err
	}

	return domain.Cursor{MaxID: row.ID, TotalSellAmount: row.TotalSellAmount}, nil
}

// Put replaces the whole document for the draw, inserting it if absent.
func (s *DrawStore) Put(ctx context.Context, draw *domain.Draw) error {
	key := strconv.Itoa(draw.ID)
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": key},
		drawDocument{Key: key, Draw: *draw},
		options.Replace().SetUpsert(true),
	)
	return err
}

// Get returns mongo.ErrNoDocuments when the draw is not stored.
func (s *DrawStore) Get(ctx context.Context, id int) (*domain.Draw, error) {
	var doc drawDocument
	if err := s.collection.FindOne(ctx, bson.M{"_id": strconv.Itoa(id)}).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc.Draw, nil
}

// Count returns the number of stored draws.
func (s *DrawStore) Count(ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{})
}
