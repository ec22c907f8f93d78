package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Fi44er/storefront/internal/models"
	apperrors "github.com/Fi44er/storefront/pkg/errors"
	"github.com/Fi44er/storefront/pkg/response"
	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const (
	userKey contextKey = "user"

	TokenTTL       = 24 * time.Hour
	authCookieName = "auth_token"
	bearerSchema   = "Bearer "
)

// UserLookup resolves the user a token was issued to.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type JWTConfig struct {
	SecretKey string
	Users     UserLookup
}

type Claims struct {
	UserID string          `json:"user_id"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(user *models.User, secretKey string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

// AuthMiddleware accepts a bearer token or the auth cookie and loads the
// user it names. Role comes from the stored user, not from the token.
func AuthMiddleware(cfg *JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				response.Error(w, apperrors.Unauthorized("authentication required", nil))
				return
			}

			token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.SecretKey), nil
			})
			if err != nil || !token.Valid {
				response.Error(w, apperrors.Unauthorized("invalid or expired token", err))
				return
			}

			claims, ok := token.Claims.(*Claims)
			if !ok || claims.UserID == "" {
				response.Error(w, apperrors.Unauthorized("invalid token claims", nil))
				return
			}

			user, err := cfg.Users.GetUser(r.Context(), claims.UserID)
			if err != nil || user == nil || !user.IsActive {
				response.Error(w, apperrors.Unauthorized("user no longer exists", err))
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok || !user.IsAdmin() {
			response.Error(w, apperrors.Forbidden("admin access required", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, bearerSchema) {
		return strings.TrimPrefix(authHeader, bearerSchema)
	}

	cookie, err := r.Cookie(authCookieName)
	if err == nil {
		return cookie.Value
	}

	return ""
}

func SetAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(TokenTTL.Seconds()),
	})
}

func CurrentUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// WithUser is used by tests and internal callers that already resolved the user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
