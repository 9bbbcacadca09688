package services

import (
	"context"
	"fmt"
	"time"

	"bus-track/internal/mylogger"
	"bus-track/internal/tracking-service/core/domain/models"
	"bus-track/internal/tracking-service/core/domain/websocketdto"
	"bus-track/internal/tracking-service/core/ports"

	"github.com/google/uuid"
)

const DefaultCooldown = 5 * time.Minute

// Notifier creates durable notification events and pushes them to the
// recipient's user room, suppressing repeats per (recipient, kind, dedupeKey)
// within the cooldown window.
type Notifier struct {
	repo      ports.ITrackingRepo
	hub       ports.IRoomHub
	cooldowns ports.CooldownStore
	window    time.Duration
	log       mylogger.Logger
	now       func() time.Time
}

func NewNotifier(repo ports.ITrackingRepo, hub ports.IRoomHub, cooldowns ports.CooldownStore, window time.Duration, log mylogger.Logger) *Notifier {
	if window <= 0 {
		window = DefaultCooldown
	}
	return &Notifier{
		repo:      repo,
		hub:       hub,
		cooldowns: cooldowns,
		window:    window,
		log:       log,
		now:       time.Now,
	}
}

func (n *Notifier) Dispatch(ctx context.Context, userID, kind, title, body string, meta map[string]any, dedupeKey string) (*models.NotificationEvent, error) {
	log := n.log.Action("Dispatch")
	now := n.now()

	if dedupeKey != "" {
		key := cooldownKey(userID, kind, dedupeKey)
		// The cooldown is stamped before the durable write: if the insert
		// fails we under-notify for one window rather than risk a flood.
		if !n.cooldowns.TryClaim(key, now, n.window) {
			log.Debug("notification suppressed by cooldown", "user_id", userID, "kind", kind, "dedupe_key", dedupeKey)
			return nil, nil
		}
	}

	ev := models.NotificationEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Body:      body,
		Meta:      meta,
		CreatedAt: now,
	}

	if err := n.repo.CreateNotificationEvent(ctx, ev); err != nil {
		return nil, fmt.Errorf("cannot save notification event: %w", err)
	}

	n.hub.Broadcast(websocketdto.UserRoom(userID), websocketdto.TypeNotification, websocketdto.NotificationMessage{
		ID:        ev.ID,
		Kind:      ev.Kind,
		Title:     ev.Title,
		Body:      ev.Body,
		Meta:      ev.Meta,
		CreatedAt: ev.CreatedAt,
	})

	return &ev, nil
}

func cooldownKey(userID, kind, dedupeKey string) string {
	return userID + ":" + kind + ":" + dedupeKey
}
