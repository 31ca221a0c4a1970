// Package store persists users and bills in MongoDB. Each bill is a single document, so
// creating, replacing or deleting one is atomic without transactions.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/models"
)

const (
	UsersCollection = "users"
	BillsCollection = "bills"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// UserStore is the credential store.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, upd models.ProfileUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
}

// BillStore is the bill repository.
type BillStore interface {
	Create(ctx context.Context, b *models.Bill) error
	List(ctx context.Context, f models.BillFilter) ([]models.Bill, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bill, error)
	Update(ctx context.Context, id primitive.ObjectID, upd models.BillUpdate) (*models.Bill, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// EnsureIndexes creates the indexes the stores rely on. The unique email index is what
// keeps concurrent sign-ups from creating duplicate users.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(BillsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}, Options: options.Index().SetName("date_desc")},
		{Keys: bson.D{{Key: "doctorEmail", Value: 1}}, Options: options.Index().SetName("doctor_email")},
	})
	return err
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
