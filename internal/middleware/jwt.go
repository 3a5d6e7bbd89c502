package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context"  // context with timeout bounds the per-request user lookup
    "errors"   // errors.Is distinguishes verification outcomes
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming
    "time"     // timeout duration for the DB call

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/kelechi-obi/orgvault/internal/repository" // user lookup by token subject
    "github.com/kelechi-obi/orgvault/internal/utils"      // stateless token verification
)

// Context keys under which the gate stores the resolved caller.  Handlers
// read the public user id via c.Get(CtxUserID) and the full record via
// c.Get(CtxUser).
const (
    CtxUserID = "user_id"
    CtxUser   = "auth_user"
)

// JWTAuth returns an Echo middleware guarding protected routes.  Each
// request terminates in exactly one of five outcomes:
//
//  1. no "Authorization: Bearer <token>" header        -> 401
//  2. token signature valid but expired                -> 401
//  3. bad signature, malformed token or wrong algorithm -> 403
//  4. token valid but its subject resolves to no user  -> 404
//     (the user may have been deleted after issuance)
//  5. otherwise the resolved user is attached to the request context and
//     the chain continues.
//
// Signature verification is stateless; user existence is re-checked against
// the store on every protected request, deliberately without caching.
func JWTAuth(secret string, users *repository.UserRepo) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{
                    "status":     "error",
                    "message":    "Authentication token required",
                    "statusCode": http.StatusUnauthorized,
                })
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            userID, err := utils.VerifyAccessToken(secret, raw)
            if err != nil {
                if errors.Is(err, utils.ErrTokenExpired) {
                    return c.JSON(http.StatusUnauthorized, echo.Map{
                        "status":     "error",
                        "message":    "Token expired",
                        "statusCode": http.StatusUnauthorized,
                    })
                }
                return c.JSON(http.StatusForbidden, echo.Map{
                    "status":     "error",
                    "message":    "Forbidden",
                    "statusCode": http.StatusForbidden,
                })
            }

            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()

            u, err := users.GetByUserID(ctx, userID)
            if err != nil {
                if errors.Is(err, repository.ErrNotFound) {
                    return c.JSON(http.StatusNotFound, echo.Map{
                        "status":     "error",
                        "message":    "User not found",
                        "statusCode": http.StatusNotFound,
                    })
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{
                    "status":     "error",
                    "message":    "Internal server error",
                    "statusCode": http.StatusInternalServerError,
                })
            }

            c.Set(CtxUserID, u.UserID)
            c.Set(CtxUser, u)
            return next(c)
        }
    }
}
