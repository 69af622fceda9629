package chatroom_test

import (
	"testing"

	"github.com/adityakhanna/gemini-chat/backend/internal/model/chat"
	"github.com/adityakhanna/gemini-chat/backend/internal/storage"
	chatroomstore "github.com/adityakhanna/gemini-chat/backend/internal/store/chatroom"
)

func newBridge(t *testing.T) storage.Bridge {
	t.Helper()
	bridge, err := storage.NewFileBridge(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBridge err: %v", err)
	}
	return bridge
}

func TestAddInsertsAtFront(t *testing.T) {
	store := chatroomstore.NewStore(newBridge(t))

	store.Add("First")
	store.Add("Second")
	store.Add("Third")

	rooms := store.List()
	if len(rooms) != 3 {
		t.Fatalf("expected 3 chatrooms, got %d", len(rooms))
	}

	want := []string{"Third", "Second", "First"}
	for i, title := range want {
		if rooms[i].Title != title {
			t.Fatalf("position %d: got %q want %q", i, rooms[i].Title, title)
		}
	}
}

func TestAddFieldDefaults(t *testing.T) {
	store := chatroomstore.NewStore(newBridge(t))

	room := store.Add("Trip Planning")
	if room.ID == "" {
		t.Fatal("expected generated id")
	}
	if room.LastMessage != "" {
		t.Fatalf("expected empty preview, got %q", room.LastMessage)
	}
	if room.UpdatedAt.IsZero() {
		t.Fatal("expected UpdatedAt to be set")
	}
}

func TestDeleteUnknownIsNoop(t *testing.T) {
	store := chatroomstore.NewStore(newBridge(t))
	store.Add("Keep")

	store.Delete("missing")

	if len(store.List()) != 1 {
		t.Fatal("delete of unknown id must not remove anything")
	}
}

func TestUpdateLastMessage(t *testing.T) {
	store := chatroomstore.NewStore(newBridge(t))
	room := store.Add("Trip Planning")

	store.UpdateLastMessage(room.ID, "Hello")

	got, ok := store.Find(room.ID)
	if !ok {
		t.Fatal("chatroom disappeared")
	}
	if got.LastMessage != "Hello" {
		t.Fatalf("unexpected preview: %q", got.LastMessage)
	}
	if got.UpdatedAt.Before(room.UpdatedAt) {
		t.Fatal("expected UpdatedAt bump")
	}

	// Unknown ids are ignored.
	store.UpdateLastMessage("missing", "nope")
}

func TestReadAfterWriteConsistency(t *testing.T) {
	bridge := newBridge(t)
	store := chatroomstore.NewStore(bridge)

	a := store.Add("A")
	b := store.Add("B")
	store.Add("C")
	store.Delete(b.ID)

	var persisted []chat.Chatroom
	if !bridge.Load(storage.KeyChatrooms, &persisted) {
		t.Fatal("expected persisted snapshot")
	}

	inMemory := store.List()
	if len(persisted) != len(inMemory) {
		t.Fatalf("stored %d chatrooms, memory has %d", len(persisted), len(inMemory))
	}
	for i := range inMemory {
		if persisted[i].ID != inMemory[i].ID {
			t.Fatalf("id mismatch at %d: %s vs %s", i, persisted[i].ID, inMemory[i].ID)
		}
	}

	// A fresh store over the same bridge sees the same directory.
	reloaded := chatroomstore.NewStore(bridge)
	if _, ok := reloaded.Find(a.ID); !ok {
		t.Fatal("expected chatroom to survive reload")
	}
	if _, ok := reloaded.Find(b.ID); ok {
		t.Fatal("deleted chatroom resurrected on reload")
	}
}
