package model

import "time"

// Organisation represents a row in the `organisations` table.  Every user
// belongs to at least one organisation: registration creates a default one
// named "<FirstName>'s Organisation" and records the new user as its
// creator and first member.
//
// Fields:
//  ID          – auto-increment primary key; internal only.
//  OrgID       – public opaque identifier (ULID), unique.
//  Name        – required, non-empty display name.
//  Description – optional free text.
//  CreatorID   – public user id of the user who created the organisation.
//  CreatedAt   – timestamp of creation.
type Organisation struct {
    ID          uint64    // organisations.id
    OrgID       string    // organisations.org_id
    Name        string    // organisations.name
    Description string    // organisations.description
    CreatorID   string    // organisations.creator_id (references users.user_id)
    CreatedAt   time.Time // organisations.created_at
}

// Membership models a row in the `organisation_members` join table.  It is
// a pure relationship entity: a user may belong to many organisations and
// an organisation may have many users.  The storage layer enforces that no
// duplicate row exists for the same (organisation, user) pair via a
// composite unique key, and removes rows when either side is deleted.
//
// Fields:
//  OrgID     – public organisation id.
//  UserID    – public user id.
//  CreatedAt – when the membership was granted.
type Membership struct {
    OrgID     string    // organisation_members.org_id
    UserID    string    // organisation_members.user_id
    CreatedAt time.Time // organisation_members.created_at
}
