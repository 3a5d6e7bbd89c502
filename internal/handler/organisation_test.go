package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/kelechi-obi/orgvault/internal/config"
	"github.com/kelechi-obi/orgvault/internal/middleware"
	"github.com/kelechi-obi/orgvault/internal/model"
	"github.com/kelechi-obi/orgvault/internal/repository"
)

var orgCols = []string{"id", "org_id", "name", "description", "creator_id", "created_at"}

func orgRow(id uint64, orgID, name, creatorID string) *sqlmock.Rows {
	return sqlmock.NewRows(orgCols).AddRow(id, orgID, name, "", creatorID, time.Now().UTC())
}

func newOrgRig(t *testing.T, cfg config.Config) (*OrganisationHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewOrganisationHandler(cfg, repository.NewOrganisationRepo(db), repository.NewUserRepo(db)), mock
}

// authedCtx builds an echo context the way the JWT gate leaves it: with the
// caller's public id and resolved record stored under the middleware
// context keys.
func authedCtx(method, target, body, callerID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set(middleware.CtxUserID, callerID)
	c.Set(middleware.CtxUser, model.User{
		UserID:    callerID,
		FirstName: "tee",
		LastName:  "thelma",
		Email:     "tee@test.io",
		Phone:     "123",
	})
	return c, rec
}

func TestGetOrganisationsEmptyIs404ByDefault(t *testing.T) {
	h, mock := newOrgRig(t, testCfg)

	mock.ExpectQuery("SELECT (.+) FROM organisations o").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(orgCols))

	c, rec := authedCtx(http.MethodGet, "/api/organisations", "", "u1")
	require.NoError(t, h.GetOrganisations(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "No organisations found for the user")
}

func TestGetOrganisationsEmptyListPolicy(t *testing.T) {
	cfg := testCfg
	cfg.OrgEmptyListOK = true
	h, mock := newOrgRig(t, cfg)

	mock.ExpectQuery("SELECT (.+) FROM organisations o").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(orgCols))

	c, rec := authedCtx(http.MethodGet, "/api/organisations", "", "u1")
	require.NoError(t, h.GetOrganisations(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"organisations":[]`)
}

func TestGetOrganisationsScopedToMemberships(t *testing.T) {
	h, mock := newOrgRig(t, testCfg)

	mock.ExpectQuery("SELECT (.+) FROM organisations o").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(orgCols).
			AddRow(1, "o1", "tee's Organisation", "", "u1", time.Now().UTC()))

	c, rec := authedCtx(http.MethodGet, "/api/organisations", "", "u1")
	require.NoError(t, h.GetOrganisations(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Organisations []struct {
				OrgID string `json:"orgId"`
				Name  string `json:"name"`
			} `json:"organisations"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Organisations, 1)
	require.Equal(t, "o1", resp.Data.Organisations[0].OrgID)
}

func TestGetOrganisationNotFound(t *testing.T) {
	h, mock := newOrgRig(t, testCfg)

	mock.ExpectQuery("SELECT (.+) FROM organisations WHERE org_id=").
		WillReturnError(sql.ErrNoRows)

	c, rec := authedCtx(http.MethodGet, "/api/organisations/missing", "", "u1")
	c.SetParamNames("orgId")
	c.SetParamValues("missing")
	require.NoError(t, h.GetOrganisation(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Organisation not found")
}

func TestGetOrganisationNonMemberForbidden(t *testing.T) {
	h, mock := newOrgRig(t, testCfg)

	mock.ExpectQuery("SELECT (.+) FROM organisations WHERE org_id=").
		WithArgs("o1").
		WillReturnRows(orgRow(1, "o1", "Engineering", "u2"))
	mock.ExpectQuery("SELECT COUNT(.+) FROM organisation_members").
		WithArgs("o1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

	// The organisation exists, but the caller holds no membership: 403, not
	// 404, matching the rest of the API even though it leaks existence.
	c, rec := authedCtx(http.MethodGet, "/api/organisations/o1", "", "u1")
	c.SetParamNames("orgId")
	c.SetParamValues("o1")
	require.NoError(t, h.GetOrganisation(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "Access denied")
}

func TestGetOrganisationMember(t *testing.T) {
	h, mock := newOrgRig(t, testCfg)

	mock.ExpectQuery("SELECT (.+) FROM organisations WHERE org_id=").
		WithArgs("o1").
		WillReturnRows(orgRow(1, "o1", "Engineering", "u2"))
	mock.ExpectQuery("SELECT COUNT(.+) FROM organisation_members").
		WithArgs("o1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	c, rec := authedCtx(http.MethodGet, "/api/organisations/o1", "", "u1")
	c.SetParamNames("orgId")
	c.SetParamValues("o1")
	require.NoError(t, h.GetOrganisation(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Engineering")
}

func TestCreateOrganisationValidation(t *testing.T) {
	h, _ := newOrgRig(t, testCfg)

	for _, body := range []string{`{}`, `{"name":"   "}`, `{"name":"","description":"x"}`} {
		c, rec := authedCtx(http.MethodPost, "/api/organisations", body, "u1")
		require.NoError(t, h.CreateOrganisation(c))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Contains(t, rec.Body.String(), `"field":"name"`)
	}
}

func TestCreateOrganisation(t *testing.T) {
	h, mock := newOrgRig(t, testCfg)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO organisations").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO organisation_members").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	c, rec := authedCtx(http.MethodPost, "/api/organisations", `{"name":"Engineering","description":"builds things"}`, "u1")
	require.NoError(t, h.CreateOrganisation(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data struct {
			OrgID string `json:"orgId"`
			Name  string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Engineering", resp.Data.Name)
	require.NotEmpty(t, resp.Data.OrgID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddUserValidation(t *testing.T) {
	h, _ := newOrgRig(t, testCfg)

	c, rec := authedCtx(http.MethodPost, "/api/organisations/o1/users", `{"userId":"  "}`, "u1")
	c.SetParamNames("orgId")
	c.SetParamValues("o1")
	require.NoError(t, h.AddUser(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "User ID is required")
}

func TestAddUserUnknownUser(t *testing.T) {
	h, mock := newOrgRig(t, testCfg)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE user_id=").
		WillReturnError(sql.ErrNoRows)

	c, rec := authedCtx(http.MethodPost, "/api/organisations/o1/users", `{"userId":"ghost"}`, "u1")
	c.SetParamNames("orgId")
	c.SetParamValues("o1")
	require.NoError(t, h.AddUser(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "User not found")
}

func TestAddUserUnknownOrganisation(t *testing.T) {
	h, mock := newOrgRig(t, testCfg)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE user_id=").
		WillReturnRows(userRowWithHash("u2", "mark@test.io", "$2a$04$hash"))
	mock.ExpectQuery("SELECT (.+) FROM organisations WHERE org_id=").
		WillReturnError(sql.ErrNoRows)

	c, rec := authedCtx(http.MethodPost, "/api/organisations/missing/users", `{"userId":"u2"}`, "u1")
	c.SetParamNames("orgId")
	c.SetParamValues("missing")
	require.NoError(t, h.AddUser(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Organisation not found")
}

func TestAddUserTwiceFailsSecondTime(t *testing.T) {
	h, mock := newOrgRig(t, testCfg)

	// First call succeeds.
	mock.ExpectQuery("SELECT (.+) FROM users WHERE user_id=").
		WillReturnRows(userRowWithHash("u2", "mark@test.io", "$2a$04$hash"))
	mock.ExpectQuery("SELECT (.+) FROM organisations WHERE org_id=").
		WillReturnRows(orgRow(1, "o1", "Engineering", "u1"))
	mock.ExpectExec("INSERT INTO organisation_members").
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := authedCtx(http.MethodPost, "/api/organisations/o1/users", `{"userId":"u2"}`, "u1")
	c.SetParamNames("orgId")
	c.SetParamValues("o1")
	require.NoError(t, h.AddUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Second call with the same pair hits the unique key and fails.
	mock.ExpectQuery("SELECT (.+) FROM users WHERE user_id=").
		WillReturnRows(userRowWithHash("u2", "mark@test.io", "$2a$04$hash"))
	mock.ExpectQuery("SELECT (.+) FROM organisations WHERE org_id=").
		WillReturnRows(orgRow(1, "o1", "Engineering", "u1"))
	mock.ExpectExec("INSERT INTO organisation_members").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry"))

	c2, rec2 := authedCtx(http.MethodPost, "/api/organisations/o1/users", `{"userId":"u2"}`, "u1")
	c2.SetParamNames("orgId")
	c2.SetParamValues("o1")
	require.NoError(t, h.AddUser(c2))
	require.Equal(t, http.StatusBadRequest, rec2.Code)
	require.Contains(t, rec2.Body.String(), "already a member")
}
