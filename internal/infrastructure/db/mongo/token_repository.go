package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/birthreminder/accounts/internal/core/domain"
)

const tokenCollection = "tokens"

type MongoTokenRepository struct {
	coll *mongo.Collection
}

func NewTokenRepository(db *mongo.Database) *MongoTokenRepository {
	return &MongoTokenRepository{coll: db.Collection(tokenCollection)}
}

type mongoToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Value     string             `bson:"value"`
	UserID    string             `bson:"user_id"`
	CreatedAt int64              `bson:"created_at"`
}

func (r *MongoTokenRepository) Create(ctx context.Context, token *domain.Token) (*domain.Token, error) {
	doc := mongoToken{
		Value:     token.Value,
		UserID:    token.UserID,
		CreatedAt: token.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert token: %w", err)
	}

	created := *token
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// FindByValue looks up a token by exact bearer value. An unknown value is
// indistinguishable from a fabricated one: both return domain.ErrInvalidToken.
func (r *MongoTokenRepository) FindByValue(ctx context.Context, value string) (*domain.Token, error) {
	var mt mongoToken
	if err := r.coll.FindOne(ctx, bson.M{"value": value}).Decode(&mt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	return &domain.Token{
		ID:        mt.ID.Hex(),
		Value:     mt.Value,
		UserID:    mt.UserID,
		CreatedAt: unixToTime(mt.CreatedAt),
	}, nil
}
