package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushrelay/pushrelay/internal/dedup"
)

func newWebhookHandler(t *testing.T, store *fakeStore) (*WebhookHandler, *fakeSender) {
	t.Helper()
	mapper, dispatcher, sender := newTestPipeline(t, store)
	cache := dedup.New()
	return NewWebhookHandler(cache, mapper, dispatcher, testLogger()), sender
}

func postWebhook(h *WebhookHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/notification/seerr", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)
	return rec
}

func TestWebhookDispatchesApprovedEvent(t *testing.T) {
	store := newFakeStore()
	store.addUser("alice", false, "tok-a1")
	h, sender := newWebhookHandler(t, store)

	rec := postWebhook(h, `{
		"notification_type": "MEDIA_APPROVED",
		"subject": "Dune",
		"request": {"requestedBy_username": "alice"}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sender.batches, 1)
	require.Len(t, sender.batches[0], 1)
	assert.Contains(t, sender.batches[0][0].Body, "Dune")
	assert.Equal(t, []string{"tok-a1"}, sender.batches[0][0].Destinations)
}

func TestWebhookSuppressesRetryWithinWindow(t *testing.T) {
	store := newFakeStore()
	store.addUser("alice", false, "tok-a1")
	h, sender := newWebhookHandler(t, store)

	body := `{"notification_type": "MEDIA_APPROVED", "subject": "Dune",
		"request": {"requestedBy_username": "alice"}}`

	first := postWebhook(h, body)
	second := postWebhook(h, body)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusAccepted, second.Code)
	assert.Contains(t, second.Body.String(), "duplicate")
	assert.Len(t, sender.batches, 1, "retry must not reach the sender")
}

func TestWebhookDistinctSubjectsAreNotDuplicates(t *testing.T) {
	store := newFakeStore()
	store.addUser("alice", false, "tok-a1")
	h, sender := newWebhookHandler(t, store)

	postWebhook(h, `{"notification_type": "MEDIA_APPROVED", "subject": "Dune",
		"request": {"requestedBy_username": "alice"}}`)
	postWebhook(h, `{"notification_type": "MEDIA_APPROVED", "subject": "Severance",
		"request": {"requestedBy_username": "alice"}}`)

	assert.Len(t, sender.batches, 2)
}

func TestWebhookAcknowledgesMalformedPayload(t *testing.T) {
	store := newFakeStore()
	store.addUser("alice", false, "tok-a1")
	h, sender := newWebhookHandler(t, store)

	rec := postWebhook(h, `{not json`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, sender.batches)
}

func TestWebhookIgnoresIssueEvents(t *testing.T) {
	store := newFakeStore()
	store.addUser("alice", false, "tok-a1")
	h, sender := newWebhookHandler(t, store)

	rec := postWebhook(h, `{"notification_type": "ISSUE_CREATED", "subject": "Broken audio"}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "ignored")
	assert.Empty(t, sender.batches)
}

func TestWebhookAnswers202WhenNoDevices(t *testing.T) {
	store := newFakeStore() // nobody registered anything
	h, sender := newWebhookHandler(t, store)

	rec := postWebhook(h, `{"notification_type": "MEDIA_PENDING", "subject": "Dune"}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, sender.batches)
}
