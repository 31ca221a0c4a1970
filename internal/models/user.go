package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"` // Hide from JSON responses
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Hospital    string             `bson:"hospital,omitempty" json:"hospital,omitempty"`
	Specialties []string           `bson:"specialties,omitempty" json:"specialties,omitempty"`
}

// ProfileUpdate carries the profile fields a user may change. Nil fields are left untouched.
type ProfileUpdate struct {
	Name        *string   `json:"name"`
	Hospital    *string   `json:"hospital"`
	Specialties *[]string `json:"specialties"`
}

// Empty reports whether the update would change nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Hospital == nil && u.Specialties == nil
}

// NormalizeSpecialties trims tags, drops blanks and removes duplicates, keeping first-seen order.
func NormalizeSpecialties(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
