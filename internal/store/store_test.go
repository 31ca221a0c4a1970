package store

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/models"
)

func TestBillFilter(t *testing.T) {
	if f := billFilter(models.BillFilter{}); len(f) != 0 {
		t.Errorf("expected empty filter, got %v", f)
	}

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	f := billFilter(models.BillFilter{From: from, To: to, DoctorEmail: "doc@example.com", Patient: "o'b+"})

	date, ok := f["date"].(bson.M)
	if !ok {
		t.Fatalf("expected date range, got %v", f["date"])
	}
	if date["$gte"] != from {
		t.Errorf("unexpected lower bound %v", date["$gte"])
	}
	if date["$lt"] != to.Add(24*time.Hour) {
		t.Errorf("unexpected upper bound %v", date["$lt"])
	}
	if f["doctorEmail"] != "doc@example.com" {
		t.Errorf("unexpected doctor filter %v", f["doctorEmail"])
	}
	re, ok := f["patient"].(primitive.Regex)
	if !ok || re.Pattern != `o'b\+` || re.Options != "i" {
		t.Errorf("unexpected patient filter %#v", f["patient"])
	}
}

// testDatabase connects to MONGO_TEST_URI and returns a throwaway database.
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	db := client.Database("medbill_test_" + primitive.NewObjectID().Hex())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	if err := EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	return db
}

func TestMongoUserStore(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	users := NewMongoUserStore(db)

	u := &models.User{Name: "Dr. Smith", Email: "smith@example.com", Password: "hash"}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID.IsZero() {
		t.Fatal("expected id to be assigned")
	}

	dup := &models.User{Name: "Other", Email: "smith@example.com", Password: "hash"}
	if err := users.Create(ctx, dup); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
	if n, _ := db.Collection(UsersCollection).CountDocuments(ctx, bson.M{"email": "smith@example.com"}); n != 1 {
		t.Errorf("expected exactly one user, got %d", n)
	}

	hospital := "General Hospital"
	specs := []string{"Cardiology", " Cardiology ", "", "Internal Medicine"}
	got, err := users.UpdateProfile(ctx, u.ID, models.ProfileUpdate{Hospital: &hospital, Specialties: &specs})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if got.Name != "Dr. Smith" || got.Hospital != hospital {
		t.Errorf("unexpected profile %+v", got)
	}
	if want := []string{"Cardiology", "Internal Medicine"}; !reflect.DeepEqual(got.Specialties, want) {
		t.Errorf("expected specialties %v, got %v", want, got.Specialties)
	}

	if err := users.UpdatePassword(ctx, u.ID, "newhash"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	byEmail, err := users.FindByEmail(ctx, "smith@example.com")
	if err != nil || byEmail.Password != "newhash" {
		t.Errorf("expected new hash, got %+v (%v)", byEmail, err)
	}

	if _, err := users.FindByID(ctx, primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := users.UpdatePassword(ctx, primitive.NewObjectID(), "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMongoBillStore(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	bills := NewMongoBillStore(db)

	older := &models.Bill{
		Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Time: "09:00",
		DoctorName: "A", DoctorEmail: "a@example.com", DoctorHospital: "H", Patient: "Jane Doe",
		Items: []models.LineItem{{Note: "n1", Codes: []models.BillingCode{{Code: "A1", Description: "d", UnitPrice: 10, Unit: 2}}}},
	}
	newer := &models.Bill{
		Date: time.Date(2025, 3, 29, 0, 0, 0, 0, time.UTC), Time: "14:30",
		DoctorName: "B", DoctorEmail: "b@example.com", DoctorHospital: "H", Patient: "John Roe",
		Items: []models.LineItem{{Note: "n2", Codes: []models.BillingCode{}}},
	}
	for _, b := range []*models.Bill{older, newer} {
		if err := bills.Create(ctx, b); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	fetched, err := bills.FindByID(ctx, older.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !reflect.DeepEqual(fetched.Items, older.Items) || !fetched.Date.Equal(older.Date) {
		t.Errorf("round trip mismatch: %+v vs %+v", fetched, older)
	}

	all, err := bills.List(ctx, models.BillFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != newer.ID {
		t.Errorf("expected newest first, got %+v", all)
	}

	filtered, err := bills.List(ctx, models.BillFilter{Patient: "jane"})
	if err != nil || len(filtered) != 1 || filtered[0].ID != older.ID {
		t.Errorf("patient filter: %+v (%v)", filtered, err)
	}

	patient := "Jane Q. Doe"
	updated, err := bills.Update(ctx, older.ID, models.BillUpdate{Patient: &patient})
	if err != nil || updated.Patient != patient || updated.Time != "09:00" {
		t.Errorf("update: %+v (%v)", updated, err)
	}

	if err := bills.Delete(ctx, older.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := bills.FindByID(ctx, older.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := bills.Delete(ctx, older.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := bills.Update(ctx, older.ID, models.BillUpdate{Patient: &patient}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on update, got %v", err)
	}
}
