package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"registrar/internal/registration/models"
	"registrar/pkg/sentinel"
)

// CollectionName is where participant documents live, matching the
// collection the registration site has always written to.
const CollectionName = "participants"

// MongoStore persists participants in a MongoDB collection.
type MongoStore struct {
	participants *mongo.Collection
}

func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{participants: db.Collection(CollectionName)}
}

// participantDoc is the stored shape. The ObjectID stays an implementation
// detail of this backend; callers only ever see its hex form.
type participantDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	USN       string             `bson:"usn"`
	Email     string             `bson:"email"`
	Year      string             `bson:"year"`
	Phone     string             `bson:"phone"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d participantDoc) toModel() models.Participant {
	return models.Participant{
		ID:    d.ID.Hex(),
		Name:  d.Name,
		USN:   d.USN,
		Email: d.Email,
		Year:  d.Year,
		Phone: d.Phone,
	}
}

// EnsureIndexes creates the unique indexes on usn and email. Insert relies
// on them to surface duplicate registrants as conflicts.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	_, err := s.participants.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "usn", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
	})
	if err != nil {
		return fmt.Errorf("create participant indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	count, err := s.participants.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return count, nil
}

func (s *MongoStore) FindByEmailOrUSN(ctx context.Context, email, usn string) (models.Participant, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"usn": usn},
	}}

	var doc participantDoc
	err := s.participants.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Participant{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Participant{}, fmt.Errorf("find participant: %w", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) Insert(ctx context.Context, p models.Participant) (models.Participant, error) {
	doc := participantDoc{
		Name:      p.Name,
		USN:       p.USN,
		Email:     p.Email,
		Year:      p.Year,
		Phone:     p.Phone,
		CreatedAt: time.Now().UTC(),
	}

	result, err := s.participants.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Participant{}, sentinel.ErrConflict
		}
		return models.Participant{}, fmt.Errorf("insert participant: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return models.Participant{}, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	p.ID = oid.Hex()
	return p, nil
}

func (s *MongoStore) ListAll(ctx context.Context) ([]models.Participant, error) {
	cursor, err := s.participants.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []participantDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode participants: %w", err)
	}

	out := make([]models.Participant, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toModel())
	}
	return out, nil
}
