package ws

import (
	"context"
	"net/http"

	"github.com/vedran77/roomie/internal/service"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// Authenticator resolves the token a socket connects with.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (service.Session, error)
}

// ServeWS upgrades HTTP connections to WebSocket after authenticating via the token query param.
func ServeWS(hub *Hub, auth Authenticator, fwd *Forwarder, originPatterns []string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		session, err := auth.Authenticate(r.Context(), token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns:     originPatterns,
			InsecureSkipVerify: len(originPatterns) == 0,
		})
		if err != nil {
			logger.Info("ws: accept failed", zap.Error(err))
			return
		}

		client := NewClient(hub, conn, session.UserID, logger)
		if !hub.Register(client) {
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}

		go client.WritePump()
		go fwd.Run(client)
		go client.ReadPump()
	}
}
