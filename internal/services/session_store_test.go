package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestMemorySessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	sess := NewSession(uuid.New(), CaseIntake{Title: "T", Description: "D", CaseType: "C"})
	sess.append(RoleAssistant, "What happened next?")
	sess.State = SessionStateAwaitingUser

	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Get(ctx, sess.UserID, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loaded.State != SessionStateAwaitingUser || len(loaded.Turns) != 1 {
		t.Fatalf("loaded session mismatch: %+v", loaded)
	}

	// Mutating the loaded copy must not affect the stored session.
	loaded.append(RoleUser, "tampered")
	again, err := store.Get(ctx, sess.UserID, sess.ID)
	if err != nil {
		t.Fatalf("Get again: %v", err)
	}
	if len(again.Turns) != 1 {
		t.Fatal("stored session aliased by a returned copy")
	}
}

func TestMemorySessionStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	_, err := store.Get(ctx, uuid.New(), uuid.New())
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("got %v, want ErrSessionNotFound", err)
	}
}

func TestMemorySessionStoreScopedByUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	sess := NewSession(uuid.New(), CaseIntake{Description: "D"})
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, err := store.Get(ctx, uuid.New(), sess.ID)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatal("session must not be readable under another user id")
	}
}

func TestMemorySessionStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	sess := NewSession(uuid.New(), CaseIntake{Description: "D"})
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, sess.UserID, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, sess.UserID, sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatal("session still readable after delete")
	}
}
