package store

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/models"
)

type MongoBillStore struct {
	coll *mongo.Collection
}

func NewMongoBillStore(db *mongo.Database) *MongoBillStore {
	return &MongoBillStore{coll: db.Collection(BillsCollection)}
}

func (s *MongoBillStore) Create(ctx context.Context, b *models.Bill) error {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, b)
	return err
}

// List returns matching bills, newest date first.
func (s *MongoBillStore) List(ctx context.Context, f models.BillFilter) ([]models.Bill, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "time", Value: -1}})

	cursor, err := s.coll.Find(ctx, billFilter(f), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bills := make([]models.Bill, 0)
	if err = cursor.All(ctx, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

func billFilter(f models.BillFilter) bson.M {
	filter := bson.M{}

	date := bson.M{}
	if !f.From.IsZero() {
		date["$gte"] = f.From
	}
	if !f.To.IsZero() {
		// include the entire end day
		date["$lt"] = f.To.Add(24 * time.Hour)
	}
	if len(date) > 0 {
		filter["date"] = date
	}

	if f.DoctorEmail != "" {
		filter["doctorEmail"] = f.DoctorEmail
	}
	if f.Patient != "" {
		filter["patient"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Patient), Options: "i"}
	}
	return filter
}

func (s *MongoBillStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bill, error) {
	var b models.Bill
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// Update replaces the supplied top-level fields and returns the bill afterwards.
func (s *MongoBillStore) Update(ctx context.Context, id primitive.ObjectID, upd models.BillUpdate) (*models.Bill, error) {
	set := bson.M{}
	if upd.Date != nil {
		set["date"] = *upd.Date
	}
	if upd.Time != nil {
		set["time"] = *upd.Time
	}
	if upd.DoctorName != nil {
		set["doctorName"] = *upd.DoctorName
	}
	if upd.DoctorEmail != nil {
		set["doctorEmail"] = *upd.DoctorEmail
	}
	if upd.DoctorHospital != nil {
		set["doctorHospital"] = *upd.DoctorHospital
	}
	if upd.Patient != nil {
		set["patient"] = *upd.Patient
	}
	if upd.Items != nil {
		set["items"] = *upd.Items
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b models.Bill
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&b)
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (s *MongoBillStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
