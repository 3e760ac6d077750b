package domain

import "time"

// AdvisorProfile extends an advisor user with capacity and specializations.
// The current active-client count is derived from relationship rows, never
// stored here.
type AdvisorProfile struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	MaxClients      int       `json:"max_clients"`
	Specializations []string  `json:"specializations" gorm:"type:json;serializer:json"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

func (AdvisorProfile) TableName() string { return "advisor_profiles" }

type RelationshipStatus string

const (
	RelationshipActive   RelationshipStatus = "active"
	RelationshipInactive RelationshipStatus = "inactive"
)

const RelationshipPrimary = "primary"

// ClientAdvisorRelationship links a client to their assigned advisor. The
// intended invariant is at most one active primary relationship per client;
// it is checked before assignment, not enforced by a database constraint.
type ClientAdvisorRelationship struct {
	ID        int64              `json:"id"`
	ClientID  int64              `json:"client_id"`
	AdvisorID int64              `json:"advisor_id"`
	Type      string             `json:"type"`
	Status    RelationshipStatus `json:"status"`
	Notes     string             `json:"notes,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

func (ClientAdvisorRelationship) TableName() string { return "client_advisor_relationships" }
