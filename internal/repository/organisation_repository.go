package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kelechi-obi/orgvault/internal/model"
)

// OrganisationRepo provides persistence for organisations and their
// membership rows.
type OrganisationRepo struct{ DB *sql.DB }

func NewOrganisationRepo(db *sql.DB) *OrganisationRepo { return &OrganisationRepo{DB: db} }

const orgColumns = "id,org_id,name,description,creator_id,created_at"

// CreateWithCreator inserts a new organisation and the membership row for
// its creator in one transaction, so an explicitly created organisation
// immediately gains its creator as a member.
func (r *OrganisationRepo) CreateWithCreator(ctx context.Context, org *model.Organisation) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO organisations (org_id, name, description, creator_id) VALUES (?,?,?,?)",
		org.OrgID, org.Name, org.Description, org.CreatorID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO organisation_members (org_id, user_id) VALUES (?,?)",
		org.OrgID, org.CreatorID); err != nil {
		return err
	}
	return tx.Commit()
}

// ListForUser returns every organisation the user holds a membership in,
// oldest first.  An empty slice is not an error at this layer; the handler
// decides whether "no memberships" is reported as 404 or as an empty list.
func (r *OrganisationRepo) ListForUser(ctx context.Context, userID string) ([]model.Organisation, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT o.id,o.org_id,o.name,o.description,o.creator_id,o.created_at
		 FROM organisations o
		 JOIN organisation_members m ON m.org_id = o.org_id
		 WHERE m.user_id=?
		 ORDER BY o.id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []model.Organisation
	for rows.Next() {
		var o model.Organisation
		if err := rows.Scan(&o.ID, &o.OrgID, &o.Name, &o.Description, &o.CreatorID, &o.CreatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

// GetByOrgID fetches an organisation by its public identifier.
func (r *OrganisationRepo) GetByOrgID(ctx context.Context, orgID string) (model.Organisation, error) {
	var o model.Organisation
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+orgColumns+" FROM organisations WHERE org_id=? LIMIT 1",
		orgID).Scan(&o.ID, &o.OrgID, &o.Name, &o.Description, &o.CreatorID, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Organisation{}, ErrNotFound
	}
	return o, err
}

// IsMember reports whether the user holds a membership in the organisation.
func (r *OrganisationRepo) IsMember(ctx context.Context, orgID, userID string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM organisation_members WHERE org_id=? AND user_id=?",
		orgID, userID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddMember creates a membership row for the (organisation, user) pair.
// The composite unique key makes the call race-safe: a concurrent insert of
// the same pair surfaces as ErrAlreadyMember rather than a duplicate row.
func (r *OrganisationRepo) AddMember(ctx context.Context, orgID, userID string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO organisation_members (org_id, user_id) VALUES (?,?)",
		orgID, userID)
	if isDuplicateKey(err) {
		return ErrAlreadyMember
	}
	return err
}
