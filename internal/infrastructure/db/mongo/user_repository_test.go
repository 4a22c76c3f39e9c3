package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

func TestMongoUser_RoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	in := &domain.User{
		Email:        "a@example.com",
		Username:     "a",
		PasswordHash: "hash",
		Role:         domain.RoleAdmin,
		Profile:      domain.Profile{Headline: "Gopher", ProfileImage: "profile-x.png"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	doc := toMongoUser(in)
	doc.ID = primitive.NewObjectID()

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded mongoUser
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	out := decoded.toDomain()
	if out.ID != doc.ID.Hex() || out.Role != domain.RoleAdmin || out.Profile.ProfileImage != "profile-x.png" {
		t.Fatalf("unexpected user: %+v", out)
	}
	if !out.CreatedAt.Equal(now) {
		t.Fatalf("created_at drifted: %s", out.CreatedAt)
	}
}

func TestMongoUser_NestedProfileField(t *testing.T) {
	raw, err := bson.Marshal(toMongoUser(&domain.User{Profile: domain.Profile{ProfileImage: "p.png"}}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := bson.Raw(raw).Lookup("profile", "profile_image").StringValue()
	if got != "p.png" {
		t.Fatalf("SetProfileImage relies on profile.profile_image, got %q", got)
	}
}
