package handler // handler defines http handlers

import (
    "errors" // sentinel for a missing context identity

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/kelechi-obi/orgvault/internal/middleware" // context keys set by the auth gate
    "github.com/kelechi-obi/orgvault/internal/model"      // user record attached by the gate
)

// fieldError is one entry of a 422 validation response.  Every missing or
// malformed field is reported, not just the first one found.
type fieldError struct {
    Field   string `json:"field"`
    Message string `json:"message"`
}

// errorJSON writes the standard error envelope.
func errorJSON(c echo.Context, code int, message string) error {
    return c.JSON(code, echo.Map{
        "status":     "error",
        "message":    message,
        "statusCode": code,
    })
}

// successJSON writes the standard success envelope.
func successJSON(c echo.Context, code int, message string, data any) error {
    return c.JSON(code, echo.Map{
        "status":  "success",
        "message": message,
        "data":    data,
    })
}

// currentUserID extracts the authenticated caller's public id placed in the
// context by the JWT gate.
func currentUserID(c echo.Context) (string, error) {
    if s, ok := c.Get(middleware.CtxUserID).(string); ok && s != "" {
        return s, nil
    }
    return "", errors.New("no authenticated user in context")
}

// currentUser extracts the full resolved user record placed in the context
// by the JWT gate.
func currentUser(c echo.Context) (model.User, error) {
    if u, ok := c.Get(middleware.CtxUser).(model.User); ok {
        return u, nil
    }
    return model.User{}, errors.New("no authenticated user in context")
}

// userPart is the public projection of a user.  The password hash is not a
// field of this struct, so it can never leak into a response.
type userPart struct {
    UserID    string `json:"userId"`
    FirstName string `json:"firstName"`
    LastName  string `json:"lastName"`
    Email     string `json:"email"`
    Phone     string `json:"phone"`
}

func toUserPart(u model.User) userPart {
    return userPart{
        UserID:    u.UserID,
        FirstName: u.FirstName,
        LastName:  u.LastName,
        Email:     u.Email,
        Phone:     u.Phone,
    }
}

// orgPart is the public projection of an organisation.
type orgPart struct {
    OrgID       string `json:"orgId"`
    Name        string `json:"name"`
    Description string `json:"description"`
}

func toOrgPart(o model.Organisation) orgPart {
    return orgPart{OrgID: o.OrgID, Name: o.Name, Description: o.Description}
}
