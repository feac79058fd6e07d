package middleware

import (
	"context"
	"hireflow/internal/model"
	"hireflow/internal/service"
	"net/http"
	"strings"
)

type contextKey string

const (
	RecruiterIDKey     contextKey = "recruiterId"
	ApplicantClaimsKey contextKey = "applicantClaims"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireRecruiter validates a recruiter JWT from the Authorization header
func (m *AuthMiddleware) RequireRecruiter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			unauthorized(w, "missing authorization header")
			return
		}

		claims, err := m.authSvc.ValidateRecruiterToken(token)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), RecruiterIDKey, claims.RecruiterID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireApplicant validates an applicant JWT from the Authorization header
// or the token query param
func (m *AuthMiddleware) RequireApplicant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			unauthorized(w, "missing authorization")
			return
		}

		claims, err := m.authSvc.ValidateApplicantToken(token)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ApplicantClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRecruiterID extracts the recruiter ID from context
func GetRecruiterID(ctx context.Context) string {
	if v, ok := ctx.Value(RecruiterIDKey).(string); ok {
		return v
	}
	return ""
}

// GetApplicantClaims extracts the applicant's call claims from context
func GetApplicantClaims(ctx context.Context) *model.ApplicantClaims {
	if v, ok := ctx.Value(ApplicantClaimsKey).(*model.ApplicantClaims); ok {
		return v
	}
	return nil
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
