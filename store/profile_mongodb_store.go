package store

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"profile_service/domain"
	"profile_service/errors"
)

const (
	DATABASE   = "profile"
	COLLECTION = "profiles"
)

type ProfileMongoDBStore struct {
	profiles *mongo.Collection
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewProfileMongoDBStore(client *mongo.Client, tracer trace.Tracer, logger *logrus.Logger) domain.ProfileStore {
	profiles := client.Database(DATABASE).Collection(COLLECTION)
	return &ProfileMongoDBStore{
		profiles: profiles,
		tracer:   tracer,
		logger:   logger,
	}
}

type profileDocument struct {
	ID             string      `bson:"_id"`
	Username       string      `bson:"username,omitempty"`
	Accommodations interface{} `bson:"accommodations,omitempty"`
}

func (store *ProfileMongoDBStore) GetProfile(ctx context.Context, id string) (*domain.UserProfile, error) {
	ctx, span := store.tracer.Start(ctx, "ProfileMongoDBStore.GetProfile")
	defer span.End()

	projection := options.FindOne().SetProjection(bson.M{"username": 1, "accommodations": 1})

	var document profileDocument
	err := store.profiles.FindOne(ctx, bson.M{"_id": id}, projection).Decode(&document)
	if errors.Is(err, mongo.ErrNoDocuments) {
		span.SetStatus(codes.Error, "profile not found")
		return nil, errors.ErrProfileNotFound
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		store.logger.WithField("profile", id).Errorf("Error fetching profile: %v", err)
		return nil, err
	}

	set, report := domain.DecodeSelectionSet(normalizeDocument(document.Accommodations))
	if !report.Clean() {
		store.logger.WithField("profile", id).Warnf("Sanitized stored accommodations: %s", report)
	}

	return &domain.UserProfile{
		ID:             document.ID,
		Username:       document.Username,
		Accommodations: set,
	}, nil
}

func (store *ProfileMongoDBStore) UpdateAccommodations(ctx context.Context, id string, set domain.SelectionSet) error {
	ctx, span := store.tracer.Start(ctx, "ProfileMongoDBStore.UpdateAccommodations")
	defer span.End()

	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"accommodations": set.Clone()}}
	return store.updateOne(ctx, span, filter, update)
}

func (store *ProfileMongoDBStore) UpdateUsername(ctx context.Context, id string, username string) error {
	ctx, span := store.tracer.Start(ctx, "ProfileMongoDBStore.UpdateUsername")
	defer span.End()

	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"username": username}}
	return store.updateOne(ctx, span, filter, update)
}

func (store *ProfileMongoDBStore) updateOne(ctx context.Context, span trace.Span, filter, update interface{}) error {
	result, err := store.profiles.UpdateOne(ctx, filter, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		store.logger.Errorf("Error updating profile: %v", err)
		return err
	}
	if result.MatchedCount == 0 {
		span.SetStatus(codes.Error, "profile not found")
		return errors.ErrProfileNotFound
	}
	return nil
}
