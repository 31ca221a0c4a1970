package handlers

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/models"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/services"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/store"
)

// memUsers is an in-memory store.UserStore with the same contract as the Mongo one.
type memUsers struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.User
	err  error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[primitive.ObjectID]models.User{}}
}

func (s *memUsers) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *memUsers) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, existing := range s.byID {
		if existing.Email == u.Email {
			return store.ErrDuplicateEmail
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.byID[u.ID] = *u
	return nil
}

func (s *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memUsers) UpdateProfile(_ context.Context, id primitive.ObjectID, upd models.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Hospital != nil {
		u.Hospital = *upd.Hospital
	}
	if upd.Specialties != nil {
		u.Specialties = models.NormalizeSpecialties(*upd.Specialties)
	}
	s.byID[id] = u
	return &u, nil
}

func (s *memUsers) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	u, ok := s.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Password = hash
	s.byID[id] = u
	return nil
}

// memBills is an in-memory store.BillStore. Bills are deep-copied in and out so callers
// cannot alias stored documents.
type memBills struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Bill
	err  error
}

func newMemBills() *memBills {
	return &memBills{byID: map[primitive.ObjectID]models.Bill{}}
}

func (s *memBills) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func cloneBill(b models.Bill) models.Bill {
	items := make([]models.LineItem, len(b.Items))
	for i, it := range b.Items {
		codes := make([]models.BillingCode, len(it.Codes))
		for j, c := range it.Codes {
			if c.AdjustedSubtotal != nil {
				v := *c.AdjustedSubtotal
				c.AdjustedSubtotal = &v
			}
			codes[j] = c
		}
		items[i] = models.LineItem{Note: it.Note, Codes: codes}
	}
	b.Items = items
	return b
}

func (s *memBills) Create(_ context.Context, b *models.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	s.byID[b.ID] = cloneBill(*b)
	return nil
}

func (s *memBills) List(_ context.Context, f models.BillFilter) ([]models.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Bill, 0, len(s.byID))
	for _, b := range s.byID {
		if !f.From.IsZero() && b.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !b.Date.Before(f.To.AddDate(0, 0, 1)) {
			continue
		}
		if f.DoctorEmail != "" && b.DoctorEmail != f.DoctorEmail {
			continue
		}
		if f.Patient != "" && !strings.Contains(strings.ToLower(b.Patient), strings.ToLower(f.Patient)) {
			continue
		}
		out = append(out, cloneBill(b))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].Time > out[j].Time
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (s *memBills) FindByID(_ context.Context, id primitive.ObjectID) (*models.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	b, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	b = cloneBill(b)
	return &b, nil
}

func (s *memBills) Update(_ context.Context, id primitive.ObjectID, upd models.BillUpdate) (*models.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	b, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if upd.Date != nil {
		b.Date = *upd.Date
	}
	if upd.Time != nil {
		b.Time = *upd.Time
	}
	if upd.DoctorName != nil {
		b.DoctorName = *upd.DoctorName
	}
	if upd.DoctorEmail != nil {
		b.DoctorEmail = *upd.DoctorEmail
	}
	if upd.DoctorHospital != nil {
		b.DoctorHospital = *upd.DoctorHospital
	}
	if upd.Patient != nil {
		b.Patient = *upd.Patient
	}
	if upd.Items != nil {
		b.Items = *upd.Items
	}
	b = cloneBill(b)
	s.byID[id] = b
	out := cloneBill(b)
	return &out, nil
}

func (s *memBills) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

type stubClassifier struct {
	codes    []models.BillingCode
	err      error
	calls    int
	lastNote string
	lastHist []services.ChatExchange
}

func (s *stubClassifier) Classify(_ context.Context, note string, history []services.ChatExchange) ([]models.BillingCode, error) {
	s.calls++
	s.lastNote = note
	s.lastHist = history
	return s.codes, s.err
}
