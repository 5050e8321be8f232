package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"news-ingest-service/model"
)

// ArticleStore persists published articles in the `articles` collection.
//
// Deduplication is a read-then-write existence check on originalLink with
// no transaction; concurrent pipeline runs can both pass the check and
// insert the same link. The originalLink index is therefore deliberately
// non-unique so an overlap degrades to a duplicate document rather than
// a write error mid-run.
type ArticleStore struct {
	collection *mongo.Collection
}

func NewArticleStore(db *mongo.Database) *ArticleStore {
	s := &ArticleStore{collection: db.Collection("articles")}
	s.ensureIndexes()
	return s
}

func (s *ArticleStore) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "originalLink", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "publishedAt", Value: -1}},
		},
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "publishedAt", Value: -1},
			},
		},
	}

	_, err := s.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("Warning: Failed to create indexes: %v", err)
	}
}

// ExistsByLink reports whether an article with this originalLink is
// already stored.
func (s *ArticleStore) ExistsByLink(ctx context.Context, link string) (bool, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{"originalLink": link},
		options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count by link: %w", err)
	}
	return count > 0, nil
}

// Insert creates the article and returns the store-assigned id.
func (s *ArticleStore) Insert(ctx context.Context, article model.Article) (string, error) {
	res, err := s.collection.InsertOne(ctx, article)
	if err != nil {
		return "", fmt.Errorf("insert article: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprintf("%v", res.InsertedID), nil
	}
	return oid.Hex(), nil
}

// Recent returns the newest published articles for the read API.
func (s *ArticleStore) Recent(ctx context.Context, limit int64) ([]bson.M, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "publishedAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.collection.Find(ctx, bson.M{"status": model.StatusPublished}, opts)
	if err != nil {
		return nil, fmt.Errorf("find recent: %w", err)
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode recent: %w", err)
	}
	return results, nil
}

// Stats aggregates per-category counts and the latest publish time.
func (s *ArticleStore) Stats(ctx context.Context) ([]bson.M, error) {
	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":           "$category",
			"count":         bson.M{"$sum": 1},
			"lastPublished": bson.M{"$max": "$publishedAt"},
		}},
		{"$sort": bson.M{"count": -1}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	defer cursor.Close(ctx)

	var stats []bson.M
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return stats, nil
}
