package controllers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JonasWeidner/StayAtlas/app/models"
	"github.com/JonasWeidner/StayAtlas/app/repository"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/hostcontext"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/metrics/counter"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/statistics"
)

// HandleRecordClick logs a guest following a listing's outbound booking link.
// Fire-and-forget from the client's perspective: the durable event row is the
// analytics source of truth, the Redis counter feeds the denormalized
// click_count shown on cards.
func HandleRecordClick(c *fiber.Ctx) error {
	slug := strings.TrimSpace(c.Params("slug"))
	property, err := repository.GetGlobalFactory().GetPropertyRepository().GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return propertyNotFound(c)
		}
		log.Printf("click: property lookup failed for slug %q: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	if !property.IsActive {
		// Hidden listings have no outbound links to click.
		return propertyNotFound(c)
	}

	event := &models.ClickEvent{
		ID:         uuid.NewString(),
		PropertyID: property.ID,
		OccurredAt: time.Now().UTC(),
		Source:     normalizeClickSource(c.Query("source")),
	}
	if err := repository.GetGlobalFactory().GetClickEventRepository().Create(event); err != nil {
		log.Printf("click: appending event failed for property %d: %v", property.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}

	// Counter increment is best effort; the flush job reconciles from Redis.
	if err := counter.AddPropertyClick(property.ID); err != nil {
		log.Printf("click: counter increment failed for property %d: %v", property.ID, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"recorded": true})
}

// HandleHostStats returns the authenticated host's click report: today /
// week / month / all-time totals plus a 30-day daily breakdown, with day
// boundaries in the configured reporting timezone.
func HandleHostStats(c *fiber.Ctx) error {
	hostID := hostcontext.GetHostID(c)

	properties, err := repository.GetGlobalFactory().GetPropertyRepository().GetByHostID(hostID)
	if err != nil {
		log.Printf("stats: listing properties for host %d failed: %v", hostID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}

	ids := make([]uint, len(properties))
	titles := make(map[uint]string, len(properties))
	for i := range properties {
		ids[i] = properties[i].ID
		titles[properties[i].ID] = properties[i].Title
	}

	events, err := repository.GetGlobalFactory().GetClickEventRepository().GetByPropertyIDs(ids, time.Time{})
	if err != nil {
		log.Printf("stats: loading click events for host %d failed: %v", hostID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}

	report := statistics.Aggregate(events, time.Now(), reportLocation())

	type propertyClicks struct {
		PropertyID uint   `json:"property_id"`
		Title      string `json:"title"`
		AllTime    int64  `json:"all_time"`
	}
	perProperty := make([]propertyClicks, 0, len(ids))
	for _, id := range ids {
		perProperty = append(perProperty, propertyClicks{
			PropertyID: id,
			Title:      titles[id],
			AllTime:    report.PerProperty[id],
		})
	}

	return c.JSON(fiber.Map{
		"today":        report.Today,
		"week":         report.Week,
		"month":        report.Month,
		"all_time":     report.AllTime,
		"daily":        report.Daily,
		"per_property": perProperty,
	})
}
