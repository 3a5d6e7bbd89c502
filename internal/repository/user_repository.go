package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/kelechi-obi/orgvault/internal/model"
)

// UserRepo provides persistence for users.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,user_id,first_name,last_name,email,password_hash,phone,created_at,updated_at"

// CreateWithOrganisation inserts a new user, their default organisation and
// the membership linking the two inside a single transaction.  Either all
// three rows exist afterwards or none do, so a mid-sequence failure can
// never leave an orphaned user without an organisation.  A duplicate email
// surfaces as ErrEmailExists, whether caught by the pre-check in the
// handler or by the storage constraint here.
func (r *UserRepo) CreateWithOrganisation(ctx context.Context, u *model.User, org *model.Organisation) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }() // no-op after a successful commit

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO users (user_id, first_name, last_name, email, password_hash, phone) VALUES (?,?,?,?,?,?)",
		u.UserID, u.FirstName, u.LastName, strings.ToLower(strings.TrimSpace(u.Email)), u.PasswordHash, u.Phone); err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO organisations (org_id, name, description, creator_id) VALUES (?,?,?,?)",
		org.OrgID, org.Name, org.Description, org.CreatorID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO organisation_members (org_id, user_id) VALUES (?,?)",
		org.OrgID, u.UserID); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByUserID fetches a user by their public identifier.
func (r *UserRepo) GetByUserID(ctx context.Context, userID string) (model.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE user_id=? LIMIT 1", userID)
}

func (r *UserRepo) get(ctx context.Context, query string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.UserID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Phone, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// SharesOrganisation reports whether two users have at least one
// organisation membership in common.  Visibility of one user's profile to
// another is scoped to shared memberships.
func (r *UserRepo) SharesOrganisation(ctx context.Context, userA, userB string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM organisation_members a
		 JOIN organisation_members b ON a.org_id = b.org_id
		 WHERE a.user_id=? AND b.user_id=?`,
		userA, userB).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UserUpdate carries the mutable profile fields.  Empty strings mean
// "leave unchanged"; PasswordHash must already be hashed by the caller.
type UserUpdate struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string
}

// Update applies the non-empty fields of upd to the user's row.  Changing
// the email to one already in use yields ErrEmailExists.
func (r *UserRepo) Update(ctx context.Context, userID string, upd UserUpdate) error {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if upd.FirstName != "" {
		sets = append(sets, "first_name=?")
		args = append(args, upd.FirstName)
	}
	if upd.LastName != "" {
		sets = append(sets, "last_name=?")
		args = append(args, upd.LastName)
	}
	if upd.Email != "" {
		sets = append(sets, "email=?")
		args = append(args, strings.ToLower(strings.TrimSpace(upd.Email)))
	}
	if upd.Phone != "" {
		sets = append(sets, "phone=?")
		args = append(args, upd.Phone)
	}
	if upd.PasswordHash != "" {
		sets = append(sets, "password_hash=?")
		args = append(args, upd.PasswordHash)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, userID)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+", updated_at=NOW() WHERE user_id=?", args...)
	if isDuplicateKey(err) {
		return ErrEmailExists
	}
	return err
}

// Delete removes a user by public id.  Membership rows cascade at the
// storage layer.  Returns ErrNotFound when no row matched.
func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE user_id=?", userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
