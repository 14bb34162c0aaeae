package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vedran77/roomie/internal/cache"
	"github.com/vedran77/roomie/internal/compat"
	"github.com/vedran77/roomie/internal/config"
	"github.com/vedran77/roomie/internal/database"
	"github.com/vedran77/roomie/internal/live"
	"github.com/vedran77/roomie/internal/logger"
	"github.com/vedran77/roomie/internal/metrics"
	"github.com/vedran77/roomie/internal/outbox"
	"github.com/vedran77/roomie/internal/repository"
	"github.com/vedran77/roomie/internal/repository/memory"
	postgresrepo "github.com/vedran77/roomie/internal/repository/postgres"
	"github.com/vedran77/roomie/internal/service"
	"github.com/vedran77/roomie/internal/transport/http/handlers"
	"github.com/vedran77/roomie/internal/transport/http/middleware"
	"github.com/vedran77/roomie/internal/transport/ws"
	"go.uber.org/zap"
)

// stores groups the repositories of whichever driver is configured.
type stores struct {
	tx     repository.Transactor
	users  repository.UserRepository
	match  repository.MatchRepository
	notifs repository.NotificationRepository
	chats  repository.ChatRepository
	stats  repository.StatsRepository
	moods  repository.MoodRepository
	outbox repository.OutboxRepository
	close  func()
}

// realtime is the broker plus the cache backing read marks and token revocation.
type realtime struct {
	broker live.Broker
	marks  interface {
		service.ReadMarks
		service.Revocations
	}
	close func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logr, err := logger.New(cfg.IsDev(), cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logr.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	// Storage
	st, err := openStores(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer st.close()

	rt, err := openRealtime(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer rt.close()

	var breakdown compat.Provider = compat.Local{}
	if cfg.CompatRemoteURL != "" {
		breakdown = compat.NewRemote(cfg.CompatRemoteURL, compat.Local{}, logr)
	}

	// Services
	notifier := live.NewBrokerNotifier(rt.broker, logr)
	authService := service.NewAuthService(st.users, rt.marks, cfg.JWTSecret, cfg.JWTTTL)
	profileService := service.NewProfileService(st.users, st.match, breakdown)
	matchService := service.NewMatchService(st.tx, st.users, st.match, st.notifs, st.stats, st.outbox)
	matchService.SetNotifier(notifier)
	chatService := service.NewChatService(st.tx, st.chats, st.users, st.stats, st.outbox)
	chatService.SetNotifier(notifier)
	notifService := service.NewNotificationService(st.tx, st.users, st.match, st.notifs, st.chats, rt.marks)
	unread := service.NewUnreadAggregator(st.chats, st.match, st.notifs, rt.broker, logr)
	dashService := service.NewDashboardService(st.stats, unread)
	moodService := service.NewMoodService(st.moods, st.users)

	// Outbox relay
	var producer outbox.Producer = outbox.NewLogProducer(logr)
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		producer = outbox.NewKafkaProducer(brokers, cfg.KafkaTopic)
	}
	defer producer.Close()
	go outbox.NewRelay(st.outbox, producer, cfg.OutboxInterval, logr).Run(ctx)

	// Rate limiting
	messageLimiter := middleware.NewUserRateLimiter(cfg.MessageRatePerMin, "messages", logr)
	go messageLimiter.Cleanup(ctx)

	// WebSocket
	hub := ws.NewHub(rt.broker, st.chats, logr)
	go hub.Run(ctx)

	// Routes
	api := http.NewServeMux()
	handlers.Register(api, handlers.Set{
		Auth:          handlers.NewAuthHandler(authService, logr),
		Profile:       handlers.NewProfileHandler(profileService, logr),
		Match:         handlers.NewMatchHandler(matchService, logr),
		Chat:          handlers.NewChatHandler(chatService, logr),
		Notification:  handlers.NewNotificationHandler(notifService, unread, logr),
		Dashboard:     handlers.NewDashboardHandler(dashService, moodService, logr),
		MessageLimits: messageLimiter.Handler,
	}, middleware.Auth(authService, logr))

	origins := cfg.AllowedOrigins()
	var wsOrigins []string
	if !cfg.IsDev() {
		wsOrigins = origins
	}

	// /ws and /metrics bypass the request logger
	root := http.NewServeMux()
	root.Handle("GET /ws", ws.ServeWS(hub, authService, ws.NewForwarder(rt.broker, unread), wsOrigins, logr))
	root.Handle("GET /metrics", metrics.Handler())
	root.Handle("/", middleware.Logger(logr)(api))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           middleware.CORS(origins)(root),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("starting server", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*stores, error) {
	if cfg.StoreDriver == "memory" {
		logr.Warn("using in-memory store, data is lost on restart")
		s := memory.NewStore()
		return &stores{
			tx:     s,
			users:  s.Users(),
			match:  s.Matches(),
			notifs: s.Notifications(),
			chats:  s.Chats(),
			stats:  s.Stats(),
			moods:  s.Moods(),
			outbox: s.Outbox(),
			close:  func() {},
		}, nil
	}

	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	logr.Info("connected to database", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))

	return &stores{
		tx:     postgresrepo.NewTxManager(pool),
		users:  postgresrepo.NewUserRepo(pool),
		match:  postgresrepo.NewMatchRepo(pool),
		notifs: postgresrepo.NewNotificationRepo(pool),
		chats:  postgresrepo.NewChatRepo(pool),
		stats:  postgresrepo.NewStatsRepo(pool),
		moods:  postgresrepo.NewMoodRepo(pool),
		outbox: postgresrepo.NewOutboxRepo(pool),
		close:  pool.Close,
	}, nil
}

func openRealtime(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*realtime, error) {
	if cfg.RedisURL == "" {
		return &realtime{
			broker: live.NewMemoryBroker(logr),
			marks:  cache.NewMemory(),
			close:  func() {},
		}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	logr.Info("connected to redis", zap.String("addr", opts.Addr))

	return &realtime{
		broker: live.NewRedisBroker(client, "roomie", logr),
		marks:  cache.NewRedis(client, "roomie"),
		close:  func() { client.Close() },
	}, nil
}
