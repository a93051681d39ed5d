package session

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestBeginReplacesExistingState(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Begin("chat-1", "user-1")
	_, ok := store.Update("chat-1", func(st *State) {
		st.Step = StepRecipient
		st.Title = "Old Title"
	})
	if !ok {
		t.Fatalf("expected session")
	}

	fresh := store.Begin("chat-1", "user-2")
	if fresh.Step != StepLogin {
		t.Fatalf("expected fresh state at login, got %s", fresh.Step)
	}
	if fresh.Title != "" {
		t.Fatalf("expected no field carry-over, got title %q", fresh.Title)
	}
	if fresh.InitiatingUserID != "user-2" {
		t.Fatalf("unexpected initiator: %s", fresh.InitiatingUserID)
	}
}

func TestCancelRemovesState(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Begin("chat-1", "")
	if !store.Cancel("chat-1") {
		t.Fatalf("expected cancel to find the session")
	}
	if _, ok := store.Get("chat-1"); ok {
		t.Fatalf("expected no session after cancel")
	}
	if store.Cancel("chat-1") {
		t.Fatalf("expected second cancel to find nothing")
	}
}

func TestUpdateReturnsSnapshot(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Begin("chat-1", "")
	snap, ok := store.Update("chat-1", func(st *State) {
		st.Step = StepSymbol
		st.Title = "Badge"
	})
	if !ok {
		t.Fatalf("expected session")
	}
	// Mutating the snapshot must not leak into the store.
	snap.Title = "Mutated"
	stored, _ := store.Get("chat-1")
	if stored.Title != "Badge" {
		t.Fatalf("snapshot mutation leaked: %q", stored.Title)
	}
	if stored.Step != StepSymbol {
		t.Fatalf("unexpected step: %s", stored.Step)
	}
}

func TestTakeIsExclusive(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Begin("chat-1", "")

	var wins int64
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := store.Take("chat-1"); ok {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store")
	}
}

func TestConcurrentUpdatesDoNotCorruptStep(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Begin("chat-1", "")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update("chat-1", func(st *State) {
				st.Step = StepAsset
				st.Step = StepTitle
			})
		}()
	}
	wg.Wait()
	state, ok := store.Get("chat-1")
	if !ok || state.Step != StepTitle {
		t.Fatalf("unexpected final state: %+v ok=%v", state, ok)
	}
}

func TestStepString(t *testing.T) {
	t.Parallel()

	labels := map[Step]string{
		StepLogin:       "login",
		StepLoginSecret: "login_secret",
		StepAsset:       "asset",
		StepTitle:       "title",
		StepSymbol:      "symbol",
		StepDescription: "description",
		StepRecipient:   "recipient",
		StepConfirm:     "confirm",
	}
	for step, want := range labels {
		if got := step.String(); got != want {
			t.Fatalf("step %d: got %q want %q", step, got, want)
		}
	}
}
