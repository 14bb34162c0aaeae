package handlers

import "net/http"

type Set struct {
	Auth          *AuthHandler
	Profile       *ProfileHandler
	Match         *MatchHandler
	Chat          *ChatHandler
	Notification  *NotificationHandler
	Dashboard     *DashboardHandler
	MessageLimits func(http.Handler) http.Handler
}

// Register mounts the REST API on mux. auth wraps every protected route.
func Register(mux *http.ServeMux, h Set, auth func(http.Handler) http.Handler) {
	protected := func(f http.HandlerFunc) http.Handler {
		return auth(f)
	}
	limited := func(f http.HandlerFunc) http.Handler {
		if h.MessageLimits == nil {
			return auth(f)
		}
		return auth(h.MessageLimits(f))
	}

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/v1/auth/login", h.Auth.Login)

	// Protected - Identity
	mux.Handle("POST /api/v1/auth/logout", protected(h.Auth.Logout))
	mux.Handle("GET /api/v1/me", protected(h.Auth.Me))

	// Protected - Profile & quiz
	mux.Handle("GET /api/v1/profile", protected(h.Profile.Get))
	mux.Handle("PATCH /api/v1/profile", protected(h.Profile.Update))
	mux.Handle("PUT /api/v1/quiz/{kind}", protected(h.Profile.SubmitQuiz))
	mux.Handle("GET /api/v1/roommates", protected(h.Profile.Roommates))
	mux.Handle("GET /api/v1/roommates/{id}/compatibility", protected(h.Profile.Compatibility))
	mux.Handle("POST /api/roommates/compatibility", protected(h.Profile.Breakdown))

	// Protected - Matches
	mux.Handle("POST /api/v1/match-requests", protected(h.Match.SendRequest))
	mux.Handle("GET /api/v1/match-requests/incoming", protected(h.Match.ListIncoming))
	mux.Handle("GET /api/v1/match-requests/outgoing", protected(h.Match.ListOutgoing))
	mux.Handle("POST /api/v1/match-requests/{id}/respond", protected(h.Match.Respond))
	mux.Handle("GET /api/v1/matches", protected(h.Match.ListMatches))

	// Protected - Notifications
	mux.Handle("GET /api/v1/notifications", protected(h.Notification.List))
	mux.Handle("POST /api/v1/notifications/{id}/read", protected(h.Notification.MarkRead))
	mux.Handle("POST /api/v1/notifications/read-all", protected(h.Notification.MarkAllRead))
	mux.Handle("GET /api/v1/feed", protected(h.Notification.Feed))
	mux.Handle("POST /api/v1/feed/{id}/dismiss", protected(h.Notification.Dismiss))
	mux.Handle("GET /api/v1/unread", protected(h.Notification.Unread))

	// Protected - Chats
	mux.Handle("POST /api/v1/chats", protected(h.Chat.StartChat))
	mux.Handle("GET /api/v1/chats", protected(h.Chat.ListChats))
	mux.Handle("POST /api/v1/chats/read-all", protected(h.Chat.MarkAllRead))
	mux.Handle("GET /api/v1/chats/{id}/messages", protected(h.Chat.ListMessages))
	mux.Handle("POST /api/v1/chats/{id}/messages", limited(h.Chat.SendMessage))
	mux.Handle("POST /api/v1/chats/{id}/read", protected(h.Chat.MarkChatRead))

	// Protected - Dashboard
	mux.Handle("GET /api/v1/dashboard", protected(h.Dashboard.Stats))
	mux.Handle("POST /api/v1/moods", protected(h.Dashboard.RecordMood))
	mux.Handle("GET /api/v1/moods", protected(h.Dashboard.MoodHistory))
}
