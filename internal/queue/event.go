// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into an audit trail.
package queue

// Queue names shared between the publisher and the consumer.
const (
    UserRegisteredQueue      = "user.registered"
    OrganisationCreatedQueue = "organisation.created"
)

// UserRegisteredEvent is published after a registration transaction commits.
// It carries enough information for downstream consumers to log or notify
// without querying the primary database.
type UserRegisteredEvent struct {
    UserID       string `json:"user_id"`
    Email        string `json:"email"`
    FirstName    string `json:"first_name"`
    LastName     string `json:"last_name"`
    OrgID        string `json:"org_id"` // the auto-created default organisation
    RegisteredAt string `json:"registered_at"`
}

// OrganisationCreatedEvent is published when a user explicitly creates an
// organisation.
type OrganisationCreatedEvent struct {
    OrgID     string `json:"org_id"`
    Name      string `json:"name"`
    CreatorID string `json:"creator_id"`
    CreatedAt string `json:"created_at"`
}
