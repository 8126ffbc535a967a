package notification

import (
	"log/slog"
	"strings"

	"github.com/pushrelay/pushrelay/internal/domain"
	"github.com/pushrelay/pushrelay/internal/localization"
)

// Defaults used when the webhook omits the requester or subject.
const (
	unknownUser  = "Unknown User"
	unknownMedia = "Unknown Media"
)

// eventMapping describes how one webhook event type becomes a notification:
// whether it targets administrators or the requesting user, and which catalog
// keys supply the title and body templates.
type eventMapping struct {
	admin    bool
	titleKey string
	bodyKey  string
}

// eventMappings is the closed set of recognised webhook event types. Anything
// absent here (and not an issue event) takes the raw fallback path.
var eventMappings = map[string]eventMapping{
	"TEST":                {admin: true, titleKey: "SeerrRequestPendingTitle", bodyKey: "SeerrRequestPendingBody"},
	"TEST_NOTIFICATION":   {admin: true, titleKey: "SeerrRequestPendingTitle", bodyKey: "SeerrRequestPendingBody"},
	"MEDIA_PENDING":       {admin: true, titleKey: "SeerrRequestPendingTitle", bodyKey: "SeerrRequestPendingBody"},
	"MEDIA_AUTO_APPROVED": {admin: true, titleKey: "SeerrRequestAutoApprovedTitle", bodyKey: "SeerrRequestAutoApprovedBody"},
	"MEDIA_FAILED":        {admin: true, titleKey: "SeerrRequestFailedTitle", bodyKey: "SeerrRequestFailedBody"},
	"MEDIA_APPROVED":      {titleKey: "SeerrRequestApprovedTitle", bodyKey: "SeerrRequestApprovedBody"},
	"MEDIA_DECLINED":      {titleKey: "SeerrRequestDeclinedTitle", bodyKey: "SeerrRequestDeclinedBody"},
	"MEDIA_AVAILABLE":     {titleKey: "SeerrRequestAvailableTitle", bodyKey: "SeerrRequestAvailableBody"},
}

// Mapper normalizes webhook payloads into internal notifications.
type Mapper struct {
	loc    localization.Provider
	logger *slog.Logger
}

// NewMapper creates a Mapper using the given localization provider.
func NewMapper(loc localization.Provider, logger *slog.Logger) *Mapper {
	return &Mapper{
		loc:    loc,
		logger: logger.With(slog.String("component", "webhook_mapper")),
	}
}

// MapToNotification converts a webhook payload into a notification, or
// returns nil when the event should be ignored. Malformed payloads and issue
// events are ignored; unrecognised event types degrade to the payload's raw
// subject/message addressed to the requesting user, so unknown future events
// still reach somebody rather than vanishing.
func (m *Mapper) MapToNotification(payload *domain.WebhookPayload) *domain.Notification {
	if payload == nil || strings.TrimSpace(payload.NotificationType) == "" {
		m.logger.Warn("mapper: payload missing notification type")
		return nil
	}

	eventType := strings.ToUpper(payload.NotificationType)

	// Issue threads are out of scope for push notifications.
	if strings.Contains(eventType, "ISSUE") {
		m.logger.Debug("mapper: ignoring issue event",
			slog.String("notification_type", payload.NotificationType),
		)
		return nil
	}

	subject := payload.Subject
	if subject == "" {
		subject = unknownMedia
	}
	requestedBy := payload.RequestedBy()
	if requestedBy == "" {
		requestedBy = unknownUser
	}

	n := &domain.Notification{IsAdmin: false}

	mapping, known := eventMappings[eventType]
	if !known {
		m.logger.Warn("mapper: unknown event type, using raw fallback",
			slog.String("notification_type", eventType),
		)
		n.Title = payload.Subject
		n.Body = payload.Message
		n.Username = requestedBy
		return n
	}

	n.IsAdmin = mapping.admin
	if !mapping.admin {
		n.Username = requestedBy
	}
	n.Title = m.loc.GetString(mapping.titleKey)
	n.Body = m.loc.GetFormatted(mapping.bodyKey, requestedBy, subject)

	m.logger.Debug("mapper: mapped webhook event",
		slog.String("notification_type", eventType),
		slog.Bool("is_admin", n.IsAdmin),
		slog.String("username", n.Username),
	)
	return n
}
