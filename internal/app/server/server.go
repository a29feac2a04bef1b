package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/MrNoFunsadface/FCommunityBE/internal/app/server/handlers"
	"github.com/MrNoFunsadface/FCommunityBE/internal/core/contracts"
	"github.com/MrNoFunsadface/FCommunityBE/internal/core/services"
	"github.com/MrNoFunsadface/FCommunityBE/pkg/middleware"
)

type Server struct {
	mux            *http.ServeMux
	addr           string
	name           string
	log            *slog.Logger
	authn          contracts.Authenticator
	authHandler    *handlers.AuthHandler
	friendHandler  *handlers.FriendHandler
	chatHandler    *handlers.ChatHandler
	messageHandler *handlers.MessageHandler
}

func NewServer(
	log *slog.Logger,
	name string,
	addr string,
	authn contracts.Authenticator,
	userSvc services.IUserService,
	tokenSvc *services.TokenService,
	friendSvc services.IFriendService,
	chatSvc services.IChatService,
	msgSvc services.IMessageService,
) *Server {
	s := &Server{
		mux:            http.NewServeMux(),
		addr:           addr,
		name:           name,
		log:            log,
		authn:          authn,
		authHandler:    handlers.NewAuthHandler(userSvc, tokenSvc),
		friendHandler:  handlers.NewFriendHandler(friendSvc),
		chatHandler:    handlers.NewChatHandler(chatSvc),
		messageHandler: handlers.NewMessageHandler(msgSvc),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	auth := middleware.Auth(s.authn)
	protected := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	// Public
	s.mux.HandleFunc("POST /auth/signup", s.authHandler.Signup)

	// Profile
	s.mux.Handle("GET /me", protected(s.authHandler.Me))

	// Friend graph
	s.mux.Handle("POST /friends/requests", protected(s.friendHandler.SendRequest))
	s.mux.Handle("POST /friends/requests/{senderID}/accept", protected(s.friendHandler.AcceptRequest))
	s.mux.Handle("DELETE /friends/requests/{senderID}", protected(s.friendHandler.DenyRequest))
	s.mux.Handle("GET /friends", protected(s.friendHandler.ListFriends))
	s.mux.Handle("GET /friends/requests", protected(s.friendHandler.ListRequests))

	// Chat sessions
	s.mux.Handle("POST /chats/dm", protected(s.chatHandler.CreateDM))
	s.mux.Handle("POST /chats/group", protected(s.chatHandler.CreateGroup))
	s.mux.Handle("GET /chats/groups", protected(s.chatHandler.ListGroups))
	s.mux.Handle("GET /chats/dms", protected(s.chatHandler.ListDMs))
	s.mux.Handle("GET /chats/{chatID}", protected(s.chatHandler.GetMeta))
	s.mux.Handle("PATCH /chats/{chatID}", protected(s.chatHandler.UpdateMeta))
	s.mux.Handle("POST /chats/{chatID}/members", protected(s.chatHandler.AddMember))
	s.mux.Handle("DELETE /chats/{chatID}/members/{userID}", protected(s.chatHandler.RemoveMember))
	s.mux.Handle("POST /chats/{chatID}/leave", protected(s.chatHandler.Leave))
	s.mux.Handle("PUT /chats/{chatID}/presence", protected(s.chatHandler.Heartbeat))
	s.mux.Handle("GET /chats/{chatID}/presence", protected(s.chatHandler.Online))

	// Message log
	s.mux.Handle("POST /chats/{chatID}/messages", protected(s.messageHandler.Send))
	s.mux.Handle("GET /chats/{chatID}/messages", protected(s.messageHandler.History))
}

func (s *Server) Start() error {
	handler := middleware.RequestLogger(s.log)(middleware.TracerMiddleware(s.name)(s.mux))
	server := &http.Server{
		Addr:         s.addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	s.log.Info("server starting", "addr", s.addr)
	return server.ListenAndServe()
}
