package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParticipants struct {
	members map[string][]string
}

func (f *fakeParticipants) MemberIDs(chatID string) ([]string, error) {
	return f.members[chatID], nil
}

type fakePresence struct {
	lastSeen chan string
}

func (f *fakePresence) UpdateLastSeen(userID string) error {
	f.lastSeen <- userID
	return nil
}

func newTestManager(members map[string][]string) (*Manager, *fakePresence) {
	presence := &fakePresence{lastSeen: make(chan string, 16)}
	m := NewManager(&fakeParticipants{members: members}, presence)
	go m.Run()
	return m, presence
}

func newTestClient(m *Manager, userID string) *Client {
	return &Client{ID: userID, Send: make(chan OutgoingEvent, 16), Manager: m}
}

func waitOnline(t *testing.T, m *Manager, userID string) {
	t.Helper()
	require.Eventually(t, func() bool { return m.IsOnline(userID) },
		time.Second, 5*time.Millisecond)
}

func TestManager_RegisterAndResolve(t *testing.T) {
	m, _ := newTestManager(nil)

	alice := newTestClient(m, "alice")
	bob := newTestClient(m, "bob")
	m.Register(alice)
	m.Register(bob)
	waitOnline(t, m, "alice")
	waitOnline(t, m, "bob")

	online := m.Resolve([]string{"alice", "bob", "carol"})
	assert.ElementsMatch(t, []string{"alice", "bob"}, online)
	assert.False(t, m.IsOnline("carol"))
}

func TestManager_LastConnectWins(t *testing.T) {
	m, _ := newTestManager(nil)

	first := newTestClient(m, "alice")
	m.Register(first)
	waitOnline(t, m, "alice")

	second := newTestClient(m, "alice")
	m.Register(second)

	// The stale connection's send channel is closed, the user stays online.
	require.Eventually(t, func() bool {
		select {
		case _, open := <-first.Send:
			return !open
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
	assert.True(t, m.IsOnline("alice"))

	// The displaced connection tearing down must not take the fresh one with it.
	m.Unregister(first)
	time.Sleep(20 * time.Millisecond)
	assert.True(t, m.IsOnline("alice"))

	m.SendToUser("alice", OutgoingEvent{Event: "ping"})
	event := <-second.Send
	assert.Equal(t, "ping", event.Event)
}

func TestManager_DisplacedConnectionRepliesAreDropped(t *testing.T) {
	m, _ := newTestManager(nil)

	first := newTestClient(m, "alice")
	m.Register(first)
	waitOnline(t, m, "alice")

	second := newTestClient(m, "alice")
	m.Register(second)

	// Wait until the manager has closed the displaced connection's channel.
	require.Eventually(t, func() bool {
		select {
		case _, open := <-first.Send:
			return !open
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	// The displaced read pump may still produce replies (bad frames, failed
	// service calls). They must be silently dropped, not crash the process.
	require.NotPanics(t, func() {
		first.reply(OutgoingEvent{Event: "error_send_message"})
	})
	assert.False(t, first.trySend(OutgoingEvent{Event: "ping"}))

	// The live connection is unaffected.
	m.SendToUser("alice", OutgoingEvent{Event: "ping"})
	assert.Equal(t, "ping", (<-second.Send).Event)
}

func TestManager_BroadcastToChatSkipsOffline(t *testing.T) {
	m, _ := newTestManager(map[string][]string{
		"chat-1": {"alice", "bob", "offline-carol"},
	})

	alice := newTestClient(m, "alice")
	bob := newTestClient(m, "bob")
	m.Register(alice)
	m.Register(bob)
	waitOnline(t, m, "alice")
	waitOnline(t, m, "bob")

	m.BroadcastToChat("chat-1", OutgoingEvent{Event: EventSendMessage, Data: "hi"})

	// The fan-out mirrors the client event name on the wire.
	assert.Equal(t, "hi", awaitEvent(t, alice, "send_message").Data)
	assert.Equal(t, "hi", awaitEvent(t, bob, "send_message").Data)
}

// awaitEvent reads from the client until the wanted event arrives, skipping
// interleaved presence frames.
func awaitEvent(t *testing.T, c *Client, event string) OutgoingEvent {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case got := <-c.Send:
			if got.Event == event {
				return got
			}
		case <-deadline:
			t.Fatalf("never received %q", event)
		}
	}
}

func TestManager_PresenceEvents(t *testing.T) {
	m, presence := newTestManager(nil)

	alice := newTestClient(m, "alice")
	m.Register(alice)
	waitOnline(t, m, "alice")

	bob := newTestClient(m, "bob")
	m.Register(bob)
	waitOnline(t, m, "bob")

	// Alice hears bob come online.
	event := <-alice.Send
	assert.Equal(t, EventUserOnline, event.Event)
	assert.Equal(t, presencePayload{UserID: "bob"}, event.Data)

	m.Unregister(bob)
	event = <-alice.Send
	assert.Equal(t, EventUserOffline, event.Event)
	assert.Equal(t, presencePayload{UserID: "bob"}, event.Data)

	// Going offline records last_seen.
	select {
	case id := <-presence.lastSeen:
		assert.Equal(t, "bob", id)
	case <-time.After(time.Second):
		t.Fatal("last_seen was never recorded")
	}
	assert.False(t, m.IsOnline("bob"))
}
