package message_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/adityakhanna/gemini-chat/backend/internal/model/chat"
	"github.com/adityakhanna/gemini-chat/backend/internal/storage"
	messagestore "github.com/adityakhanna/gemini-chat/backend/internal/store/message"
)

func newBridge(t *testing.T) storage.Bridge {
	t.Helper()
	bridge, err := storage.NewFileBridge(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBridge err: %v", err)
	}
	return bridge
}

func msg(id string) chat.Message {
	return chat.Message{
		ID:        id,
		Text:      "text " + id,
		Sender:    chat.SenderUser,
		CreatedAt: time.Now().UTC(),
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	store := messagestore.NewStore(newBridge(t))

	store.Append("room", msg("user-1"))
	store.Append("room", msg("user-2"))

	log := store.Transcript("room")
	if len(log) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(log))
	}
	if log[0].ID != "user-1" || log[1].ID != "user-2" {
		t.Fatalf("unexpected order: %s, %s", log[0].ID, log[1].ID)
	}
}

func TestPrependKeepsBatchOrder(t *testing.T) {
	store := messagestore.NewStore(newBridge(t))

	store.Append("room", msg("user-1"))

	older := make([]chat.Message, 0, 3)
	for i := 0; i < 3; i++ {
		older = append(older, msg(fmt.Sprintf("old-%d", i)))
	}
	store.Prepend("room", older)

	log := store.Transcript("room")
	want := []string{"old-0", "old-1", "old-2", "user-1"}
	if len(log) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(log))
	}
	for i, id := range want {
		if log[i].ID != id {
			t.Fatalf("position %d: got %s want %s", i, log[i].ID, id)
		}
	}
}

func TestClearDropsOnlyThatRoom(t *testing.T) {
	store := messagestore.NewStore(newBridge(t))

	store.Append("room-a", msg("user-1"))
	store.Append("room-b", msg("user-2"))

	store.Clear("room-a")

	if got := store.Transcript("room-a"); len(got) != 0 {
		t.Fatalf("expected cleared log, got %d messages", len(got))
	}
	if got := store.Transcript("room-b"); len(got) != 1 {
		t.Fatalf("other room's log touched: %d messages", len(got))
	}
}

func TestLogsSurviveReload(t *testing.T) {
	bridge := newBridge(t)
	store := messagestore.NewStore(bridge)

	store.Append("room", msg("user-1"))
	store.Append("room", msg("ai-1"))

	reloaded := messagestore.NewStore(bridge)
	log := reloaded.Transcript("room")
	if len(log) != 2 {
		t.Fatalf("expected 2 messages after reload, got %d", len(log))
	}
	if log[1].ID != "ai-1" {
		t.Fatalf("unexpected tail after reload: %s", log[1].ID)
	}
}

func TestTranscriptReturnsCopy(t *testing.T) {
	store := messagestore.NewStore(newBridge(t))
	store.Append("room", msg("user-1"))

	log := store.Transcript("room")
	log[0].Text = "mutated"

	if store.Transcript("room")[0].Text == "mutated" {
		t.Fatal("Transcript must not expose internal state")
	}
}
