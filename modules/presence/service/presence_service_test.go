package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"meetup-api/core/cache"
	"meetup-api/core/constants"

	"github.com/google/uuid"
)

type fakeCache struct {
	store    map[string]string
	lastTTL  time.Duration
	phantoms []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]string)}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	if v, ok := f.store[key]; ok {
		return v, nil
	}
	return "", cache.ErrMiss
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.store[key] = value
	f.lastTTL = ttl
	return nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.store, k)
	}
	return nil
}

// Keys also returns phantom entries, mimicking keys that expire between the
// SCAN and the GET.
func (f *fakeCache) Keys(ctx context.Context, pattern string) ([]string, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	var out []string
	for k := range f.store {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	for _, k := range f.phantoms {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeCache) Close() error { return nil }

type staticUsers struct {
	names map[uuid.UUID]string
}

func (s *staticUsers) GetUserName(ctx context.Context, id uuid.UUID) (string, error) {
	return s.names[id], nil
}

func TestSetTypingStoresWithTTL(t *testing.T) {
	c := newFakeCache()
	userID := uuid.New()
	eventID := uuid.New()
	svc := NewPresenceService(c, &staticUsers{names: map[uuid.UUID]string{userID: "An"}})

	if appErr := svc.SetTyping(context.Background(), eventID, userID, true); appErr != nil {
		t.Fatalf("SetTyping() error = %v", appErr)
	}

	if len(c.store) != 1 {
		t.Fatalf("stored %d keys, want 1", len(c.store))
	}
	if c.lastTTL != constants.TypingTTL {
		t.Errorf("ttl = %v, want %v", c.lastTTL, constants.TypingTTL)
	}
	key := typingKey(eventID, userID)
	if _, ok := c.store[key]; !ok {
		t.Errorf("missing key %q", key)
	}
}

func TestSetTypingFalseClears(t *testing.T) {
	c := newFakeCache()
	userID := uuid.New()
	eventID := uuid.New()
	svc := NewPresenceService(c, &staticUsers{names: map[uuid.UUID]string{userID: "An"}})

	if appErr := svc.SetTyping(context.Background(), eventID, userID, true); appErr != nil {
		t.Fatalf("SetTyping(true) error = %v", appErr)
	}
	if appErr := svc.SetTyping(context.Background(), eventID, userID, false); appErr != nil {
		t.Fatalf("SetTyping(false) error = %v", appErr)
	}
	if len(c.store) != 0 {
		t.Errorf("stored %d keys after clearing, want 0", len(c.store))
	}
}

func TestGetTypingExcludesRequester(t *testing.T) {
	c := newFakeCache()
	eventID := uuid.New()
	me := uuid.New()
	other := uuid.New()
	svc := NewPresenceService(c, &staticUsers{names: map[uuid.UUID]string{me: "Me", other: "Other"}})

	for _, id := range []uuid.UUID{me, other} {
		if appErr := svc.SetTyping(context.Background(), eventID, id, true); appErr != nil {
			t.Fatalf("SetTyping() error = %v", appErr)
		}
	}

	result, appErr := svc.GetTyping(context.Background(), eventID, me)
	if appErr != nil {
		t.Fatalf("GetTyping() error = %v", appErr)
	}
	if len(result) != 1 {
		t.Fatalf("got %d typing users, want 1", len(result))
	}
	if result[0].UserID != other || result[0].UserName != "Other" {
		t.Errorf("got %s/%q, want %s/%q", result[0].UserID, result[0].UserName, other, "Other")
	}
}

func TestGetTypingScopedToEvent(t *testing.T) {
	c := newFakeCache()
	eventA := uuid.New()
	eventB := uuid.New()
	typist := uuid.New()
	svc := NewPresenceService(c, &staticUsers{names: map[uuid.UUID]string{typist: "An"}})

	if appErr := svc.SetTyping(context.Background(), eventA, typist, true); appErr != nil {
		t.Fatalf("SetTyping() error = %v", appErr)
	}

	result, appErr := svc.GetTyping(context.Background(), eventB, uuid.New())
	if appErr != nil {
		t.Fatalf("GetTyping() error = %v", appErr)
	}
	if len(result) != 0 {
		t.Errorf("got %d typing users in another event, want 0", len(result))
	}
}

func TestGetTypingToleratesExpiredKeys(t *testing.T) {
	c := newFakeCache()
	eventID := uuid.New()
	typist := uuid.New()
	svc := NewPresenceService(c, &staticUsers{names: map[uuid.UUID]string{typist: "An"}})

	if appErr := svc.SetTyping(context.Background(), eventID, typist, true); appErr != nil {
		t.Fatalf("SetTyping() error = %v", appErr)
	}
	c.phantoms = append(c.phantoms, typingKey(eventID, uuid.New()))

	result, appErr := svc.GetTyping(context.Background(), eventID, uuid.New())
	if appErr != nil {
		t.Fatalf("GetTyping() error = %v", appErr)
	}
	if len(result) != 1 {
		t.Errorf("got %d typing users, want 1 with the expired key skipped", len(result))
	}
}
