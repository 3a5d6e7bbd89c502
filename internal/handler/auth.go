package handler

import (
    "context"  // context with cancellation for DB calls
    "errors"   // sentinel comparisons
    "fmt"      // default organisation name formatting
    "net/http" // HTTP status codes and primitives
    "strings"  // string manipulation utilities
    "time"     // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/kelechi-obi/orgvault/internal/config"            // app configuration
    "github.com/kelechi-obi/orgvault/internal/model"             // user and organisation records
    "github.com/kelechi-obi/orgvault/internal/queue"             // event payloads
    "github.com/kelechi-obi/orgvault/internal/repository"        // DB repositories
    "github.com/kelechi-obi/orgvault/internal/service"           // event publisher
    "github.com/kelechi-obi/orgvault/internal/utils"             // hashing, token issuing, id generation
)

// AuthHandler bundles dependencies for the registration and login flows.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authData struct {
	AccessToken string   `json:"accessToken"`
	User        userPart `json:"user"`
}

// Register creates a user together with their default organisation and
// returns a fresh access token.  The user, the organisation named
// "<firstName>'s Organisation" and the membership row are committed in a
// single transaction; a failure anywhere leaves nothing behind.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	// Collect every missing field so the client can fix them all at once.
	var errs []fieldError
	if strings.TrimSpace(req.FirstName) == "" {
		errs = append(errs, fieldError{Field: "firstName", Message: "First name is required"})
	}
	if strings.TrimSpace(req.LastName) == "" {
		errs = append(errs, fieldError{Field: "lastName", Message: "Last name is required"})
	}
	if req.Email == "" {
		errs = append(errs, fieldError{Field: "email", Message: "Email is required"})
	}
	if req.Password == "" {
		errs = append(errs, fieldError{Field: "password", Message: "Password is required"})
	}
	if strings.TrimSpace(req.Phone) == "" {
		errs = append(errs, fieldError{Field: "phone", Message: "Phone is required"})
	}
	if len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Cheap pre-check for a friendlier error; the unique constraint on
	// users.email still catches the concurrent-registration race below.
	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return errorJSON(c, http.StatusConflict, "Email already in use")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Registration unsuccessful")
	}

	u := model.User{
		UserID:       utils.NewID(),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(req.Phone),
	}
	org := model.Organisation{
		OrgID:     utils.NewID(),
		Name:      fmt.Sprintf("%s's Organisation", u.FirstName),
		CreatorID: u.UserID,
	}

	if err := h.Users.CreateWithOrganisation(ctx, &u, &org); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return errorJSON(c, http.StatusConflict, "Email already in use")
		}
		return errorJSON(c, http.StatusBadRequest, "Registration unsuccessful")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.UserID, h.Cfg.AccessTTLMin)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "issue access failed")
	}

	// Fire-and-forget audit event; a broker outage must not fail the request.
	_ = service.PublishUserRegistered(ctx, queue.UserRegisteredEvent{
		UserID:       u.UserID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		OrgID:        org.OrgID,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return successJSON(c, http.StatusCreated, "Registration successful", authData{
		AccessToken: access.Token,
		User:        toUserPart(u),
	})
}

// Login verifies credentials and returns a fresh access token.  An unknown
// email and a wrong password produce byte-identical responses so the two
// cases cannot be told apart.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var errs []fieldError
	if req.Email == "" {
		errs = append(errs, fieldError{Field: "email", Message: "Email is required"})
	}
	if req.Password == "" {
		errs = append(errs, fieldError{Field: "password", Message: "Password is required"})
	}
	if len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusUnauthorized, "Invalid email or password")
		}
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return errorJSON(c, http.StatusUnauthorized, "Invalid email or password")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.UserID, h.Cfg.AccessTTLMin)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "issue access failed")
	}

	return successJSON(c, http.StatusOK, "Login successful", authData{
		AccessToken: access.Token,
		User:        toUserPart(u),
	})
}
