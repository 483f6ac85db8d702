package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/canvasprint/canvasprint/internal/pkg/errors"
)

// RoleAdmin is the only role accepted by AdminAuth
const RoleAdmin = "admin"

const adminSubjectKey = "adminSubject"

// AdminClaims are the claims of an admin token
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminAuth guards mutating and export endpoints with HS256 admin tokens
type AdminAuth struct {
	secret []byte
	issuer string
}

// NewAdminAuth creates a new admin auth middleware
func NewAdminAuth(secret, issuer string) *AdminAuth {
	return &AdminAuth{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// IssueToken signs an admin token for subject, valid for ttl
func (a *AdminAuth) IssueToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses a token and checks its signature, issuer, expiry and role
func (a *AdminAuth) Validate(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithIssuer(a.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.Role != RoleAdmin {
		return nil, errors.New("token does not grant admin access")
	}
	return claims, nil
}

// RequireAdmin rejects requests without a valid admin bearer token
func (a *AdminAuth) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return apperrors.Unauthorized("admin token required")
		}

		claims, err := a.Validate(token)
		if err != nil {
			return apperrors.Unauthorized("invalid or expired token").WithError(err)
		}

		c.Locals(adminSubjectKey, claims.Subject)
		return c.Next()
	}
}

// extractBearerToken extracts the token from the Authorization header
func extractBearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// GetAdminSubject returns the subject of the admin token of the request
func GetAdminSubject(c *fiber.Ctx) (string, bool) {
	subject, ok := c.Locals(adminSubjectKey).(string)
	return subject, ok
}

// SetAdminSubject marks a request as authenticated. Tests use it to skip
// token handling.
func SetAdminSubject(c *fiber.Ctx, subject string) {
	c.Locals(adminSubjectKey, subject)
}
