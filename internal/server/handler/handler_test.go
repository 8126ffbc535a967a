package handler

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pushrelay/pushrelay/internal/domain"
	"github.com/pushrelay/pushrelay/internal/localization"
	"github.com/pushrelay/pushrelay/internal/notification"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fakeStore implements the device token and user store contracts in memory.
type fakeStore struct {
	tokensByUser map[uuid.UUID][]string
	admins       map[uuid.UUID]bool
	usersByName  map[string]uuid.UUID
	removed      []uuid.UUID
	upserted     []domain.DeviceToken
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tokensByUser: make(map[uuid.UUID][]string),
		admins:       make(map[uuid.UUID]bool),
		usersByName:  make(map[string]uuid.UUID),
	}
}

func (f *fakeStore) addUser(name string, admin bool, tokens ...string) uuid.UUID {
	id := uuid.New()
	f.usersByName[name] = id
	f.admins[id] = admin
	f.tokensByUser[id] = tokens
	return id
}

func (f *fakeStore) TokensForUser(_ context.Context, userID uuid.UUID) ([]string, error) {
	return f.tokensByUser[userID], nil
}

func (f *fakeStore) AllTokens(context.Context) ([]string, error) {
	var all []string
	for _, tokens := range f.tokensByUser {
		all = append(all, tokens...)
	}
	return all, nil
}

func (f *fakeStore) AdminTokens(context.Context) ([]string, error) {
	var all []string
	for id, tokens := range f.tokensByUser {
		if f.admins[id] {
			all = append(all, tokens...)
		}
	}
	return all, nil
}

func (f *fakeStore) TotalDeviceCount(context.Context) (int64, error) {
	var n int64
	for _, tokens := range f.tokensByUser {
		n += int64(len(tokens))
	}
	return n, nil
}

func (f *fakeStore) Upsert(_ context.Context, t domain.DeviceToken) (domain.DeviceToken, error) {
	f.upserted = append(f.upserted, t)
	f.tokensByUser[t.UserID] = append(f.tokensByUser[t.UserID], t.Token)
	return t, nil
}

func (f *fakeStore) Remove(_ context.Context, deviceID uuid.UUID) error {
	f.removed = append(f.removed, deviceID)
	return nil
}

func (f *fakeStore) FindUserIDByUsername(_ context.Context, username string) (uuid.UUID, error) {
	id, ok := f.usersByName[username]
	if !ok {
		return uuid.Nil, domain.ErrNotFound
	}
	return id, nil
}

func (f *fakeStore) IsAdministrator(_ context.Context, userID uuid.UUID) (bool, error) {
	return f.admins[userID], nil
}

func (f *fakeStore) UpsertBatch(_ context.Context, users []domain.User) error {
	for _, u := range users {
		f.usersByName[u.Username] = u.ID
		f.admins[u.ID] = u.IsAdministrator
	}
	return nil
}

// fakeSender records batches and acknowledges every notification.
type fakeSender struct {
	batches [][]domain.Notification
}

func (f *fakeSender) Send(_ context.Context, batch []domain.Notification) ([]domain.DeliveryReceipt, error) {
	f.batches = append(f.batches, batch)
	receipts := make([]domain.DeliveryReceipt, len(batch))
	for i := range receipts {
		receipts[i] = domain.DeliveryReceipt{Status: domain.ReceiptOK, ID: "ticket"}
	}
	return receipts, nil
}

func newTestPipeline(t *testing.T, store *fakeStore) (*notification.Mapper, *notification.Dispatcher, *fakeSender) {
	t.Helper()
	catalog, err := localization.Load("en", testLogger())
	require.NoError(t, err)

	sender := &fakeSender{}
	resolver := notification.NewResolver(store, store, testLogger())
	dispatcher := notification.NewDispatcher(store, resolver, sender, nil, testLogger())
	return notification.NewMapper(catalog, testLogger()), dispatcher, sender
}
