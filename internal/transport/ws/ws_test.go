package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/roomie/internal/cache"
	"github.com/vedran77/roomie/internal/domain"
	"github.com/vedran77/roomie/internal/live"
	"github.com/vedran77/roomie/internal/repository/memory"
	"github.com/vedran77/roomie/internal/service"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type env struct {
	t     *testing.T
	srv   *httptest.Server
	auth  *service.AuthService
	chats *service.ChatService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := zap.NewNop()
	store := memory.NewStore()
	broker := live.NewMemoryBroker(log)

	auth := service.NewAuthService(store.Users(), cache.NewMemory(), "test-secret", time.Hour)
	chats := service.NewChatService(store, store.Chats(), store.Users(), store.Stats(), store.Outbox())
	chats.SetNotifier(live.NewBrokerNotifier(broker, log))
	unread := service.NewUnreadAggregator(store.Chats(), store.Matches(), store.Notifications(), broker, log)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(broker, store.Chats(), log)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("GET /ws", ServeWS(hub, auth, NewForwarder(broker, unread), nil, log))
	srv := httptest.NewServer(mux)

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return &env{t: t, srv: srv, auth: auth, chats: chats}
}

func (e *env) register(name string) (uuid.UUID, string) {
	e.t.Helper()
	resp, err := e.auth.Register(context.Background(), service.RegisterInput{
		Email: name + "@example.com", Name: name, Password: "Secret123",
	})
	require.NoError(e.t, err)
	return resp.User.ID, resp.AccessToken
}

// dial connects and waits for the initial unread counts, after which the
// connection's subscriptions are live.
func (e *env) dial(token string) (*websocket.Conn, service.Counts) {
	e.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(e.t, err)
	e.t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })

	evt := readUntil(e.t, conn, live.EventUnreadCounts)
	var counts service.Counts
	require.NoError(e.t, json.Unmarshal(evt.Payload, &counts))
	return conn, counts
}

func readUntil(t *testing.T, conn *websocket.Conn, eventType string) live.Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	for {
		var evt live.Event
		require.NoError(t, wsjson.Read(ctx, conn, &evt), "waiting for %s", eventType)
		if evt.Type == eventType {
			return evt
		}
	}
}

func TestServeWS_RejectsMissingOrBadToken(t *testing.T) {
	e := newEnv(t)

	resp, err := http.Get(e.srv.URL + "/ws")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(e.srv.URL + "/ws?token=garbage")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMessageReachesReceiverWithCounts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, _ := e.register("alice")
	bob, bobToken := e.register("bob")

	chat, err := e.chats.StartChat(ctx, alice, bob)
	require.NoError(t, err)

	conn, initial := e.dial(bobToken)
	assert.Zero(t, initial.UnreadMessages)

	_, err = e.chats.SendMessage(ctx, alice, chat.ID, "hey")
	require.NoError(t, err)

	// message.new and the recount travel separately, so accept either order.
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var gotMessage, gotCounts bool
	for !gotMessage || !gotCounts {
		var evt live.Event
		require.NoError(t, wsjson.Read(ctx, conn, &evt))

		switch evt.Type {
		case live.EventMessageNew:
			require.NotNil(t, evt.ChatID)
			assert.Equal(t, chat.ID, *evt.ChatID)
			var msg domain.Message
			require.NoError(t, json.Unmarshal(evt.Payload, &msg))
			assert.Equal(t, "hey", msg.Text)
			gotMessage = true

		case live.EventUnreadCounts:
			var counts service.Counts
			require.NoError(t, json.Unmarshal(evt.Payload, &counts))
			assert.Equal(t, 1, counts.UnreadMessages)
			assert.Equal(t, 1, counts.PerChat[chat.ID])
			gotCounts = true
		}
	}
}

func TestTypingGoesToChatPartner(t *testing.T) {
	e := newEnv(t)
	alice, aliceToken := e.register("alice")
	bob, bobToken := e.register("bob")

	chat, err := e.chats.StartChat(context.Background(), alice, bob)
	require.NoError(t, err)

	aliceConn, _ := e.dial(aliceToken)
	bobConn, _ := e.dial(bobToken)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, wsjson.Write(ctx, aliceConn, live.Event{Type: EventTypeTypingStart, ChatID: &chat.ID}))

	evt := readUntil(t, bobConn, live.EventTyping)
	var payload TypingPayload
	require.NoError(t, json.Unmarshal(evt.Payload, &payload))
	assert.Equal(t, alice, payload.UserID)
	assert.True(t, payload.Typing)
}

func TestTypingOutsideChatIsRejected(t *testing.T) {
	e := newEnv(t)
	_, token := e.register("alice")
	conn, _ := e.dial(token)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	stranger := uuid.New()
	require.NoError(t, wsjson.Write(ctx, conn, live.Event{Type: EventTypeTypingStart, ChatID: &stranger}))

	evt := readUntil(t, conn, EventTypeError)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(evt.Payload, &payload))
	assert.Equal(t, "FORBIDDEN", payload.Code)
}

func TestPingPong(t *testing.T) {
	e := newEnv(t)
	_, token := e.register("alice")
	conn, _ := e.dial(token)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, wsjson.Write(ctx, conn, live.Event{Type: EventTypePing}))

	readUntil(t, conn, EventTypePong)
}
