package middleware

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/services-booking/internal/domain/auth"
	"github.com/BruksfildServices01/services-booking/internal/httperr"
	"github.com/BruksfildServices01/services-booking/internal/models"
)

const (
	ContextAuth  = "auth"
	ContextAdmin = "admin"
	ContextUser  = "user"
)

// Claims is the JWT payload issued on login.
type Claims struct {
	Kind       auth.Kind       `json:"kind"`
	Permission auth.Permission `json:"permission,omitempty"`
	jwt.RegisteredClaims
}

func IssueToken(secret string, ttl time.Duration, subject auth.Context) (string, error) {
	now := time.Now()
	claims := Claims{
		Kind:       subject.Kind,
		Permission: subject.Permission,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(subject.SubjectID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parseToken(header, secret string) (auth.Context, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return auth.Context{}, httperr.UnauthorizedErr("invalid_authorization_header", "expected a Bearer token")
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(
		strings.TrimSpace(parts[1]),
		&claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return auth.Context{}, httperr.UnauthorizedErr("token_expired", "token has expired")
	}
	if err != nil {
		return auth.Context{}, httperr.UnauthorizedErr("invalid_token", "invalid token")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return auth.Context{}, httperr.UnauthorizedErr("invalid_token_payload", "invalid token subject")
	}
	if claims.Kind != auth.KindAdmin && claims.Kind != auth.KindUser {
		return auth.Context{}, httperr.UnauthorizedErr("invalid_token_payload", "invalid token kind")
	}

	return auth.Context{
		SubjectID:  uint(id),
		Kind:       claims.Kind,
		Permission: claims.Permission,
	}, nil
}

func abort(c *gin.Context, err error) {
	httperr.Respond(c, err)
	c.Abort()
}

// AuthFrom returns the caller set by the auth middlewares, or the
// anonymous zero value.
func AuthFrom(c *gin.Context) auth.Context {
	if v, ok := c.Get(ContextAuth); ok {
		if a, ok := v.(auth.Context); ok {
			return a
		}
	}
	return auth.Context{}
}

// ======================================================
// TOKEN
// ======================================================

func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, httperr.UnauthorizedErr("missing_authorization_header", "authorization header is required"))
			return
		}

		a, err := parseToken(header, secret)
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(ContextAuth, a)
		c.Next()
	}
}

// OptionalAuthenticate identifies the caller when a token is sent and
// lets anonymous requests through. A malformed token is still rejected.
func OptionalAuthenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		a, err := parseToken(header, secret)
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(ContextAuth, a)
		c.Next()
	}
}

// ======================================================
// SUBJECTS
// ======================================================

// RequireAdmin loads the admin behind the token. The stored permission
// wins over the one in the token so role changes apply immediately.
func RequireAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		a := AuthFrom(c)
		if a.Kind != auth.KindAdmin {
			abort(c, httperr.Forbidden("admin_required", "admin access required"))
			return
		}

		var admin models.Admin
		if err := db.WithContext(c.Request.Context()).First(&admin, a.SubjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abort(c, httperr.UnauthorizedErr("admin_not_found", "admin no longer exists"))
				return
			}
			abort(c, err)
			return
		}

		if admin.Status != models.StatusActive {
			abort(c, httperr.Forbidden("admin_inactive", "admin account is inactive"))
			return
		}

		perm := auth.Permission(admin.Permission)
		if !perm.Valid() {
			abort(c, httperr.Forbidden("invalid_permission", "admin has no valid permission"))
			return
		}

		a.Permission = perm
		c.Set(ContextAuth, a)
		c.Set(ContextAdmin, &admin)
		c.Next()
	}
}

func RequireUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		a := AuthFrom(c)
		if a.Kind != auth.KindUser {
			abort(c, httperr.Forbidden("user_required", "user access required"))
			return
		}

		var user models.User
		if err := db.WithContext(c.Request.Context()).First(&user, a.SubjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abort(c, httperr.UnauthorizedErr("user_not_found", "user no longer exists"))
				return
			}
			abort(c, err)
			return
		}

		if user.Status != models.StatusActive {
			abort(c, httperr.Forbidden("user_inactive", "user account is inactive"))
			return
		}

		c.Set(ContextUser, &user)
		c.Next()
	}
}

// RequireFullAccess must run after RequireAdmin.
func RequireFullAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !AuthFrom(c).CanMutate() {
			abort(c, httperr.Forbidden("insufficient_permission", "permission 'all' is required"))
			return
		}
		c.Next()
	}
}
