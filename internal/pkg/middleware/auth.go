package middleware

import (
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/JonasWeidner/StayAtlas/app/repository"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/config"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/hostcontext"
)

// hostClaims are the token claims the host portal issues.
type hostClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// HostContextMiddleware resolves a bearer token into an explicit host context
// on every request. Requests without a token proceed anonymously; protected
// routes reject them via RequireHost.
func HostContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			hostcontext.Set(c, hostcontext.HostContext{IsAuthenticated: false})
			return c.Next()
		}

		claims, err := parseHostToken(token)
		if err != nil {
			log.Printf("rejecting bearer token: %v", err)
			hostcontext.Set(c, hostcontext.HostContext{IsAuthenticated: false})
			return c.Next()
		}

		host, err := repository.GetGlobalFactory().GetHostRepository().
			GetOrCreateByAuthSubject(claims.Subject, claims.Email, claims.Name)
		if err != nil {
			log.Printf("could not resolve host for subject %q: %v", claims.Subject, err)
			hostcontext.Set(c, hostcontext.HostContext{IsAuthenticated: false})
			return c.Next()
		}

		hostcontext.Set(c, hostcontext.HostContext{
			HostID:          host.ID,
			AuthSubject:     host.AuthSubject,
			Email:           host.Email,
			IsAuthenticated: true,
		})
		return c.Next()
	}
}

// RequireHost rejects unauthenticated requests with JSON 401.
func RequireHost(c *fiber.Ctx) error {
	if !hostcontext.IsAuthenticated(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "host authentication required",
		})
	}
	return c.Next()
}

func parseHostToken(token string) (*hostClaims, error) {
	secret := config.Get().JWTSecret
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not configured")
	}

	claims := &hostClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}

func extractBearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
