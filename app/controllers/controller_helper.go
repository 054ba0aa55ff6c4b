package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/JonasWeidner/StayAtlas/internal/pkg/config"
)

var validate = validator.New()

const defaultRequestTimeout = 15 * time.Second

// requestContext bounds outbound work (payment processor calls, DB writes)
// triggered by a single request.
func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), defaultRequestTimeout)
}

// reportLocation resolves the configured analytics timezone.
func reportLocation() *time.Location {
	return config.Get().ReportLocation()
}

// normalizeClickSource whitelists the surface a click came from.
func normalizeClickSource(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "map":
		return "map"
	case "list":
		return "list"
	case "profile":
		return "profile"
	default:
		return "directory"
	}
}
