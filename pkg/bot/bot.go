package bot

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const defaultWebhookAddr = ":8080"

type Bot struct {
	session *discordgo.Session
	plugins []Plugin

	router      *gin.Engine
	webhookAddr string
	webhooks    int
	server      *http.Server
}

// Start opens the discord session and, if any plugin registered webhooks,
// serves them in the background.
func (b *Bot) Start(ctx context.Context) error {
	l := ctxzap.Extract(ctx)

	if err := b.session.Open(); err != nil {
		return err
	}

	if b.webhooks == 0 {
		return nil
	}

	b.server = &http.Server{
		Addr:              b.webhookAddr,
		Handler:           b.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	l.Info("Serving webhooks", zap.String("addr", b.webhookAddr), zap.Int("plugins", b.webhooks))
	go func() {
		if err := b.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("Webhook server stopped", zap.String("addr", b.webhookAddr), zap.Error(err))
		}
	}()

	return nil
}

// Router exposes the webhook router, mainly for tests.
func (b *Bot) Router() http.Handler {
	return b.router
}

func (b *Bot) Close(ctx context.Context) error {
	var finalErr error

	for _, p := range b.plugins {
		err := p.Close(ctx)
		if err != nil {
			finalErr = errors.Join(finalErr, err)
		}
	}

	if b.server != nil {
		if err := b.server.Shutdown(ctx); err != nil {
			finalErr = errors.Join(finalErr, err)
		}
	}

	if err := b.session.Close(); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

func New(token string, opts ...Option) (*Bot, error) {
	if token == "" {
		return nil, errors.New("token is required")
	}
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())

	b := &Bot{
		session:     dg,
		router:      router,
		webhookAddr: defaultWebhookAddr,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}
