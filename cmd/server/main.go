package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"story-chat/auth"
	"story-chat/httpapi"
	"story-chat/internal"
	"story-chat/moderation"
	"story-chat/realtime"
	"story-chat/repositories"
	"story-chat/runtime/workers"
	"story-chat/search"
	"story-chat/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so deferred cleanup always executes.
func run() error {
	// 1. Configuration & logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Stores
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("closing BadgerDB...")
		_ = db.Close()
	}()

	index, err := search.Open(config.BlugeFilepath, log)
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		_ = index.Close()
	}()

	// 3. Moderation (optional)
	moderator, err := loadModerator(config, log)
	if err != nil {
		return err
	}

	// 4. Services & broadcast channel
	users := repositories.NewUserRepository(db)
	messages := repositories.NewMessageRepository(db)
	stories := repositories.NewStoryRepository(db)

	tokens := auth.NewTokenManager([]byte(config.SessionSecret), config.SessionTTL)
	authService := services.NewAuthService(users, tokens, log)

	registry := realtime.NewRegistry()
	fanout := realtime.NewFanout(log, registry, config.BufferSize, config.SinkTimeout)
	chatService := services.NewChatService(messages, stories, fanout, moderator, index, log)
	hub := realtime.NewHub(log, registry, fanout, chatService, config.ConnectionBufferSize)

	// 5. Context & signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Supervised workers
	supervisor := workers.NewSupervisor(log, config.RestartInterval)
	supervisor.Add(fanout)
	go supervisor.Run(ctx)

	// 7. Debug inspect server
	if config.DebugPort > 0 {
		internal.StartDebugServer(db, config.DebugPort, func() map[string]any {
			return internal.ProcessStats(map[string]any{"clients": registry.Size()})
		})
		log.Info("inspect server started", "port", config.DebugPort)
	}

	// 8. HTTP server
	handler := httpapi.NewHandler(log, authService, hub, index, config.SessionTTL)
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: httpapi.NewRouter(handler)}

	errChan := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "address", address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 9. Wait for stop or error
	select {
	case <-ctx.Done():
		log.Info("shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 10. Final cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	hub.Shutdown()
	supervisor.Stop()
	log.Info("program stopped cleanly")

	return nil
}

// loadModerator builds the censor from the configured dictionary file.
// No path means moderation stays disabled (nil moderator).
func loadModerator(config internal.Config, log *slog.Logger) (*moderation.Moderator, error) {
	if config.CensoredWordsPath == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(config.CensoredWordsPath)
	if err != nil {
		return nil, fmt.Errorf("reading censored words: %w", err)
	}
	var words []string
	for _, line := range strings.Split(string(raw), "\n") {
		if word := strings.TrimSpace(line); word != "" {
			words = append(words, word)
		}
	}

	replacement, err := internal.CharacterRune(config.CensoredChar)
	if err != nil {
		return nil, err
	}

	moderator, err := moderation.NewModerator(words, replacement, log)
	if err != nil {
		return nil, fmt.Errorf("building moderator: %w", err)
	}
	log.Info("moderation enabled", "words", len(words))
	return moderator, nil
}
