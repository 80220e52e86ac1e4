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

	"github.com/mr-dj06/Bandhu-AI/internal/auth"
	"github.com/mr-dj06/Bandhu-AI/internal/config"
	"github.com/mr-dj06/Bandhu-AI/internal/handler"
	"github.com/mr-dj06/Bandhu-AI/internal/service/ai"
	"github.com/mr-dj06/Bandhu-AI/internal/service/chat"
	"github.com/mr-dj06/Bandhu-AI/internal/store"
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

	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		log.Fatalf("failed to open conversation store: %v", err)
	}
	defer st.Close()

	authSvc, err := auth.New(auth.Config{
		Username: cfg.Auth.Username,
		Password: cfg.Auth.Password,
		Secret:   cfg.Auth.Secret,
		TokenTTL: cfg.Auth.TokenTTL,
	})
	if err != nil {
		log.Fatalf("failed to initialize admin auth: %v", err)
	}

	// Chat stays usable without model credentials: the responder then answers
	// with its fixed fallback reply.
	var responder *ai.Responder
	if cfg.AI.Enabled() {
		chatModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			log.Printf("warning: failed to initialize chat model: %v", err)
		} else if responder, err = ai.NewResponder(ctx, chatModel); err != nil {
			log.Printf("warning: failed to initialize responder: %v", err)
		} else {
			log.Println("responder initialized successfully")
		}
	} else {
		log.Println("model credentials not configured, replies degrade to the fallback message")
	}

	chatSvc := chat.NewService(st, responder)
	router := handler.NewRouter(st, chatSvc, authSvc)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Bandhu AI backend listening on %s", serverCfg.Addr)
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
