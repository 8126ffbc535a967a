package notification

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pushrelay/pushrelay/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fakeDirectory implements domain.TokenDirectory and domain.UserDirectory
// over in-memory maps.
type fakeDirectory struct {
	usersByName map[string]uuid.UUID
	admins      map[uuid.UUID]bool
	tokens      map[uuid.UUID][]string

	allTokenCalls int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		usersByName: map[string]uuid.UUID{},
		admins:      map[uuid.UUID]bool{},
		tokens:      map[uuid.UUID][]string{},
	}
}

func (f *fakeDirectory) addUser(name string, admin bool, tokens ...string) uuid.UUID {
	id := uuid.New()
	f.usersByName[name] = id
	f.admins[id] = admin
	f.tokens[id] = tokens
	return id
}

func (f *fakeDirectory) TokensForUser(_ context.Context, userID uuid.UUID) ([]string, error) {
	return f.tokens[userID], nil
}

func (f *fakeDirectory) AllTokens(context.Context) ([]string, error) {
	f.allTokenCalls++
	var all []string
	for _, ts := range f.tokens {
		all = append(all, ts...)
	}
	return all, nil
}

func (f *fakeDirectory) AdminTokens(context.Context) ([]string, error) {
	var admins []string
	for id, ts := range f.tokens {
		if f.admins[id] {
			admins = append(admins, ts...)
		}
	}
	return admins, nil
}

func (f *fakeDirectory) TotalDeviceCount(context.Context) (int64, error) {
	n := int64(0)
	for _, ts := range f.tokens {
		n += int64(len(ts))
	}
	return n, nil
}

func (f *fakeDirectory) FindUserIDByUsername(_ context.Context, username string) (uuid.UUID, error) {
	id, ok := f.usersByName[username]
	if !ok {
		return uuid.Nil, domain.ErrNotFound
	}
	return id, nil
}

func (f *fakeDirectory) IsAdministrator(_ context.Context, userID uuid.UUID) (bool, error) {
	return f.admins[userID], nil
}

// fakeSender records the batches it receives and answers one "ok" receipt per
// notification.
type fakeSender struct {
	batches [][]domain.Notification
}

func (f *fakeSender) Send(_ context.Context, batch []domain.Notification) ([]domain.DeliveryReceipt, error) {
	f.batches = append(f.batches, batch)
	receipts := make([]domain.DeliveryReceipt, len(batch))
	for i := range receipts {
		receipts[i] = domain.DeliveryReceipt{Status: domain.ReceiptOK}
	}
	return receipts, nil
}
