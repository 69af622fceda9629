package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/adityakhanna/gemini-chat/backend/internal/config"
	"github.com/adityakhanna/gemini-chat/backend/internal/handler"
	"github.com/adityakhanna/gemini-chat/backend/internal/service/ai"
	authservice "github.com/adityakhanna/gemini-chat/backend/internal/service/auth"
	"github.com/adityakhanna/gemini-chat/backend/internal/service/conversation"
	"github.com/adityakhanna/gemini-chat/backend/internal/service/countries"
	"github.com/adityakhanna/gemini-chat/backend/internal/storage"
	chatroomstore "github.com/adityakhanna/gemini-chat/backend/internal/store/chatroom"
	messagestore "github.com/adityakhanna/gemini-chat/backend/internal/store/message"
	sessionstore "github.com/adityakhanna/gemini-chat/backend/internal/store/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	bridge, err := newBridge(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	rooms := chatroomstore.NewStore(bridge)
	messages := messagestore.NewStore(bridge)
	sessions := sessionstore.NewStore(bridge)

	var replyProvider conversation.ReplyProvider
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without AI functionality, replies will use the fallback text")
		} else {
			replyProvider = aiService
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("reply backend credentials not configured, replies will use the fallback text")
	}

	convService := conversation.NewService(rooms, messages, replyProvider, conversation.Config{
		ReplyTimeout: cfg.Chat.ReplyTimeout,
		OlderDelay:   cfg.Chat.OlderDelay,
	})

	authService := authservice.NewService(sessions, authservice.Config{
		Code:        cfg.Chat.OTPCode,
		SendDelay:   cfg.Chat.OTPSendDelay,
		VerifyDelay: cfg.Chat.OTPVerifyDelay,
	})

	countriesClient := countries.NewClient(cfg.Chat.CountriesURL)

	router := handler.NewRouter(rooms, sessions, authService, convService, countriesClient)

	startServer(ctx, cfg.Server, router)
}

func newBridge(cfg config.StorageConfig) (storage.Bridge, error) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		log.Printf("using redis snapshot storage at %s", cfg.RedisAddr)
		return storage.NewRedisBridge(client, cfg.RedisPrefix), nil
	}

	log.Printf("using file snapshot storage under %s", cfg.Dir)
	return storage.NewFileBridge(cfg.Dir)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Gemini chat backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
