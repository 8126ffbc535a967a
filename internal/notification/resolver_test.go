package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushrelay/pushrelay/internal/domain"
)

func TestResolveExplicitUserTarget(t *testing.T) {
	dir := newFakeDirectory()
	userID := dir.addUser("alice", false, "tok-a1", "tok-a2")
	dir.addUser("bob", false, "tok-b1")
	r := NewResolver(dir, dir, testLogger())

	n := &domain.Notification{UserID: &userID}
	got := r.Resolve(context.Background(), n)

	assert.ElementsMatch(t, []string{"tok-a1", "tok-a2"}, got)
	assert.Zero(t, dir.allTokenCalls, "broadcast branch must be skipped for user targets")
}

func TestResolveUsernameTarget(t *testing.T) {
	dir := newFakeDirectory()
	dir.addUser("alice", false, "tok-a1")
	dir.addUser("bob", false, "tok-b1")
	r := NewResolver(dir, dir, testLogger())

	n := &domain.Notification{Username: "alice"}
	got := r.Resolve(context.Background(), n)

	assert.Equal(t, []string{"tok-a1"}, got)
}

func TestResolveUserIDWinsOverUsername(t *testing.T) {
	dir := newFakeDirectory()
	aliceID := dir.addUser("alice", false, "tok-a1")
	dir.addUser("bob", false, "tok-b1")
	r := NewResolver(dir, dir, testLogger())

	n := &domain.Notification{UserID: &aliceID, Username: "bob"}
	got := r.Resolve(context.Background(), n)

	assert.Equal(t, []string{"tok-a1"}, got)
}

func TestResolveBroadcastWhenNoTarget(t *testing.T) {
	dir := newFakeDirectory()
	dir.addUser("alice", false, "tok-a1")
	dir.addUser("bob", false, "tok-b1", "tok-b2")
	r := NewResolver(dir, dir, testLogger())

	n := &domain.Notification{}
	got := r.Resolve(context.Background(), n)

	assert.ElementsMatch(t, []string{"tok-a1", "tok-b1", "tok-b2"}, got)
}

func TestResolveUnknownUsernameSuppressesBroadcast(t *testing.T) {
	dir := newFakeDirectory()
	dir.addUser("alice", false, "tok-a1")
	r := NewResolver(dir, dir, testLogger())

	n := &domain.Notification{Username: "nosuchuser"}
	got := r.Resolve(context.Background(), n)

	assert.Empty(t, got, "a named-but-unknown user must not fall back to broadcast")
	assert.Zero(t, dir.allTokenCalls)
}

func TestResolveAdminOnlyNeverBroadcasts(t *testing.T) {
	dir := newFakeDirectory()
	dir.addUser("root", true, "tok-admin1", "tok-admin2", "tok-admin3")
	dir.addUser("u1", false, "t1", "t2", "t3")
	dir.addUser("u2", false, "t4", "t5", "t6", "t7")
	r := NewResolver(dir, dir, testLogger())

	n := &domain.Notification{IsAdmin: true}
	got := r.Resolve(context.Background(), n)

	assert.ElementsMatch(t, []string{"tok-admin1", "tok-admin2", "tok-admin3"}, got)
	assert.Zero(t, dir.allTokenCalls)
}

func TestResolveUserTargetAndAdminUnion(t *testing.T) {
	dir := newFakeDirectory()
	aliceID := dir.addUser("alice", false, "tok-a1")
	dir.addUser("root", true, "tok-admin1")
	r := NewResolver(dir, dir, testLogger())

	n := &domain.Notification{UserID: &aliceID, IsAdmin: true}
	got := r.Resolve(context.Background(), n)

	assert.ElementsMatch(t, []string{"tok-a1", "tok-admin1"}, got)
}

func TestResolveDeduplicatesTokens(t *testing.T) {
	dir := newFakeDirectory()
	// An administrator who is also the target user: their token shows up in
	// both branches and must be emitted once.
	adminID := dir.addUser("root", true, "tok-shared")
	r := NewResolver(dir, dir, testLogger())

	n := &domain.Notification{UserID: &adminID, IsAdmin: true}
	got := r.Resolve(context.Background(), n)

	assert.Equal(t, []string{"tok-shared"}, got)
}

func TestResolveIdempotent(t *testing.T) {
	dir := newFakeDirectory()
	dir.addUser("alice", false, "tok-a1")
	dir.addUser("root", true, "tok-admin1")
	r := NewResolver(dir, dir, testLogger())

	first := r.Resolve(context.Background(), &domain.Notification{IsAdmin: true})
	second := r.Resolve(context.Background(), &domain.Notification{IsAdmin: true})

	require.ElementsMatch(t, first, second)
}
