package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"

	"cinedex-backend-go/internal/models"
)

const (
	profilesCollection = "userProfiles"
	usersCollection    = "users"
)

type firestoreProfileRepository struct {
	client *firestore.Client
}

func NewFirestoreProfileRepository(client *firestore.Client) ProfileRepository {
	return &firestoreProfileRepository{client: client}
}

// Get returns the stored profile. Fields missing from the document keep their defaults.
func (r *firestoreProfileRepository) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	snap, err := r.client.Collection(profilesCollection).Doc(userID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("profile of user '%s': %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile of user '%s': %w", userID, err)
	}

	profile := models.DefaultProfile()
	if err := snap.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile of user '%s': %w", userID, err)
	}
	return &profile, nil
}

func (r *firestoreProfileRepository) Merge(ctx context.Context, userID string, fields map[string]interface{}) error {
	if userID == "" {
		return errors.New("userID cannot be empty")
	}
	if len(fields) == 0 {
		return nil
	}
	if _, err := r.client.Collection(profilesCollection).Doc(userID).Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to merge profile of user '%s': %w", userID, err)
	}
	return nil
}

type firestoreAccountRepository struct {
	client *firestore.Client
}

func NewFirestoreAccountRepository(client *firestore.Client) AccountRepository {
	return &firestoreAccountRepository{client: client}
}

func (r *firestoreAccountRepository) Create(ctx context.Context, userID string, rec models.RegistrationRecord) error {
	if userID == "" {
		return errors.New("userID cannot be empty")
	}
	if _, err := r.client.Collection(usersCollection).Doc(userID).Set(ctx, rec); err != nil {
		return fmt.Errorf("failed to write registration of user '%s': %w", userID, err)
	}
	return nil
}
