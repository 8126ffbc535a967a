package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushrelay/pushrelay/internal/domain"
	"github.com/pushrelay/pushrelay/internal/localization"
)

func newTestMapper(t *testing.T) *Mapper {
	t.Helper()
	cat, err := localization.Load("en", testLogger())
	require.NoError(t, err)
	return NewMapper(cat, testLogger())
}

func TestMapApprovedEvent(t *testing.T) {
	m := newTestMapper(t)

	n := m.MapToNotification(&domain.WebhookPayload{
		NotificationType: "MEDIA_APPROVED",
		Subject:          "Dune",
		Request:          &domain.WebhookRequest{RequestedByUsername: "alice"},
	})

	require.NotNil(t, n)
	assert.False(t, n.IsAdmin)
	assert.Equal(t, "alice", n.Username)
	assert.Contains(t, n.Body, "alice")
	assert.Contains(t, n.Body, "Dune")
	assert.NotEmpty(t, n.Title)
}

func TestMapAdminEvents(t *testing.T) {
	m := newTestMapper(t)

	for _, eventType := range []string{"TEST", "TEST_NOTIFICATION", "MEDIA_PENDING", "MEDIA_AUTO_APPROVED", "MEDIA_FAILED"} {
		t.Run(eventType, func(t *testing.T) {
			n := m.MapToNotification(&domain.WebhookPayload{
				NotificationType: eventType,
				Subject:          "Severance",
				Request:          &domain.WebhookRequest{RequestedByUsername: "bob"},
			})
			require.NotNil(t, n)
			assert.True(t, n.IsAdmin)
			assert.Empty(t, n.Username, "admin events do not target the requester")
			assert.Contains(t, n.Body, "bob")
			assert.Contains(t, n.Body, "Severance")
		})
	}
}

func TestMapEventTypeCaseInsensitive(t *testing.T) {
	m := newTestMapper(t)

	n := m.MapToNotification(&domain.WebhookPayload{
		NotificationType: "media_available",
		Subject:          "Dune",
		Request:          &domain.WebhookRequest{RequestedByUsername: "alice"},
	})

	require.NotNil(t, n)
	assert.False(t, n.IsAdmin)
	assert.Equal(t, "alice", n.Username)
}

func TestMapIgnoresIssueEvents(t *testing.T) {
	m := newTestMapper(t)

	for _, eventType := range []string{"issue_created", "ISSUE_RESOLVED", "issue_comment"} {
		assert.Nil(t, m.MapToNotification(&domain.WebhookPayload{NotificationType: eventType}), eventType)
	}
}

func TestMapIgnoresMalformedPayloads(t *testing.T) {
	m := newTestMapper(t)

	assert.Nil(t, m.MapToNotification(nil))
	assert.Nil(t, m.MapToNotification(&domain.WebhookPayload{}))
	assert.Nil(t, m.MapToNotification(&domain.WebhookPayload{NotificationType: "   "}))
}

func TestMapUnknownEventFallsBackToRawContent(t *testing.T) {
	m := newTestMapper(t)

	n := m.MapToNotification(&domain.WebhookPayload{
		NotificationType: "SOMETHING_NEW",
		Subject:          "S",
		Message:          "M",
		Request:          &domain.WebhookRequest{RequestedByUsername: "bob"},
	})

	require.NotNil(t, n)
	assert.False(t, n.IsAdmin)
	assert.Equal(t, "bob", n.Username)
	assert.Equal(t, "S", n.Title)
	assert.Equal(t, "M", n.Body)
}

func TestMapDefaultsMissingRequesterAndSubject(t *testing.T) {
	m := newTestMapper(t)

	n := m.MapToNotification(&domain.WebhookPayload{NotificationType: "MEDIA_PENDING"})

	require.NotNil(t, n)
	assert.True(t, n.IsAdmin)
	assert.Contains(t, n.Body, "Unknown User")
	assert.Contains(t, n.Body, "Unknown Media")
}
