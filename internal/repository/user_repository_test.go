package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/kelechi-obi/orgvault/internal/model"
)

var userCols = []string{"id", "user_id", "first_name", "last_name", "email", "password_hash", "phone", "created_at", "updated_at"}

func userRow(id uint64, userID, email string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(userCols).
		AddRow(id, userID, "Tee", "Thelma", email, "$2a$04$hash", "123", now, now)
}

func newUserRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), mock
}

func TestCreateWithOrganisationCommitsAllThreeRows(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs("u1", "Tee", "Thelma", "tee@test.io", "hash", "123").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO organisations").
		WithArgs("o1", "Tee's Organisation", "", "u1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO organisation_members").
		WithArgs("o1", "u1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	u := model.User{UserID: "u1", FirstName: "Tee", LastName: "Thelma", Email: "Tee@Test.io", PasswordHash: "hash", Phone: "123"}
	org := model.Organisation{OrgID: "o1", Name: "Tee's Organisation", CreatorID: "u1"}
	require.NoError(t, repo.CreateWithOrganisation(context.Background(), &u, &org))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithOrganisationRollsBackOnMidSequenceFailure(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO organisations").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	u := model.User{UserID: "u1", Email: "tee@test.io"}
	org := model.Organisation{OrgID: "o1", Name: "Tee's Organisation", CreatorID: "u1"}
	err := repo.CreateWithOrganisation(context.Background(), &u, &org)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithOrganisationDuplicateEmail(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'tee@test.io' for key 'users.email'"))
	mock.ExpectRollback()

	u := model.User{UserID: "u1", Email: "tee@test.io"}
	org := model.Organisation{OrgID: "o1", CreatorID: "u1"}
	err := repo.CreateWithOrganisation(context.Background(), &u, &org)
	require.ErrorIs(t, err, ErrEmailExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmail(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email=").
		WithArgs("tee@test.io").
		WillReturnRows(userRow(1, "u1", "tee@test.io"))

	// Lookup normalises case and whitespace before hitting the store.
	u, err := repo.GetByEmail(context.Background(), "  Tee@Test.io ")
	require.NoError(t, err)
	require.Equal(t, "u1", u.UserID)
	require.Equal(t, "tee@test.io", u.Email)
}

func TestGetByUserIDNotFound(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE user_id=").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUserID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSharesOrganisation(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("u1", "u2").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	shared, err := repo.SharesOrganisation(context.Background(), "u1", "u2")
	require.NoError(t, err)
	require.True(t, shared)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("u1", "u3").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

	shared, err = repo.SharesOrganisation(context.Background(), "u1", "u3")
	require.NoError(t, err)
	require.False(t, shared)
}

func TestUpdateOnlySetsProvidedFields(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec("UPDATE users SET first_name=").
		WithArgs("New", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), "u1", UserUpdate{FirstName: "New"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNoFieldsIsNoop(t *testing.T) {
	repo, mock := newUserRepo(t)

	require.NoError(t, repo.Update(context.Background(), "u1", UserUpdate{}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDuplicateEmail(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec("UPDATE users SET email=").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry"))

	err := repo.Update(context.Background(), "u1", UserUpdate{Email: "taken@test.io"})
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestDelete(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec("DELETE FROM users WHERE user_id=").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "u1"))

	mock.ExpectExec("DELETE FROM users WHERE user_id=").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(context.Background(), "missing"), ErrNotFound)
}
