package domain

import (
	"strings"
	"time"
)

// UserProfile is the projection of the remote profile record this service
// reads and rewrites. The record itself is owned by the identity provider.
type UserProfile struct {
	ID             string       `bson:"_id" json:"id"`
	Username       string       `bson:"username,omitempty" json:"username"`
	Accommodations SelectionSet `bson:"accommodations,omitempty" json:"accommodations"`
}

// DisplayName falls back to the identity email when no username is stored.
func (p *UserProfile) DisplayName(fallback string) string {
	if p == nil || strings.TrimSpace(p.Username) == "" {
		return fallback
	}
	return p.Username
}

func (p UserProfile) Clone() UserProfile {
	p.Accommodations = p.Accommodations.Clone()
	return p
}

// Identity is what the identity provider tells us about the caller.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

const (
	RoleUnauthenticated = "Unauthenticated"
	RoleUser            = "User"
)
