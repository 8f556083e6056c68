package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"sewa-backend/internal/config"
	"sewa-backend/internal/logger"
	"sewa-backend/internal/security"
)

// AuthMiddleware authenticates requests according to the security level of
// the matched route and puts the caller's user id on the context.
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		routeName := ""
		if route := mux.CurrentRoute(r); route != nil {
			routeName = route.GetName()
		}

		level := config.GetSecurityLevel(routeName)
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractToken(r)
		if err != nil {
			writeUnauthorized(w, err.Error())
			return
		}

		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			logger.DebugContext(r.Context(), "Rejected token", "route", routeName, "error", err)
			if errors.Is(err, security.ErrExpiredToken) {
				writeUnauthorized(w, "token has expired")
				return
			}
			writeUnauthorized(w, "invalid token")
			return
		}
		if claims.Type != security.TokenTypeAccess {
			writeUnauthorized(w, "access token required")
			return
		}

		next.ServeHTTP(w, r.WithContext(withActor(r.Context(), claims.UserID)))
	})
}

func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("authorization token is not provided")
	}

	token := header
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("authorization token is not provided")
	}
	return token, nil
}

// requireActor fetches the caller set by AuthMiddleware. A handler reached
// without one answers 401.
func requireActor(w http.ResponseWriter, r *http.Request) (int32, bool) {
	id, ok := ActorFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return 0, false
	}
	return id, true
}
