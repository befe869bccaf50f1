package config

import (
	"context"
	"fmt"
	"time"

	"github.com/apebrain/shop-api/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OpenMongo connects to the document database and ensures its unique indexes
func OpenMongo(ctx context.Context, config *Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.MongoURL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %v", err)
	}
	db := client.Database(config.MongoDB)
	utils.LogInfo("Connected to mongo database %s", config.MongoDB)

	unique := map[string]string{
		"orders":          "id",
		"coupons":         "code",
		"users":           "email",
		"products":        "id",
		"blog_posts":      "id",
		"settings":        "type",
		"color_profiles":  "id",
		"password_resets": "token",
	}
	for collection, key := range unique {
		_, err := db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create index on %s.%s: %v", collection, key, err)
		}
	}
	return db, nil
}
