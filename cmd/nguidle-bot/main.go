package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/qdbp/nguidle/pkg/bot"
	"github.com/qdbp/nguidle/pkg/loot"
	setPlugin "github.com/qdbp/nguidle/plugins/nguidle"
	"go.uber.org/zap"
)

func initLogging(ctx context.Context) context.Context {
	l := zap.Must(zap.NewProduction())
	zap.ReplaceGlobals(l)

	return ctxzap.ToContext(ctx, l)
}

func main() {
	ctx := context.Background()

	ctx = initLogging(ctx)
	l := ctxzap.Extract(ctx)
	defer l.Sync()

	discordToken := os.Getenv("DISCORD_TOKEN")
	b, err := bot.New(discordToken, bot.WithWebhookAddr(os.Getenv("WEBHOOK_ADDR")))
	if err != nil {
		l.Error("Error creating bot,", zap.Error(err))
		os.Exit(1)
	}

	b.LoadPlugins(ctx, []bot.Plugin{
		setPlugin.New(loot.DefaultParams()),
	})

	err = b.Start(ctx)
	if err != nil {
		l.Error("Error starting bot,", zap.Error(err))
		os.Exit(1)
	}

	l.Info("Bot is now running. Press CTRL+C to exit.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	if err := b.Close(ctx); err != nil {
		l.Error("Error closing bot", zap.Error(err))
	}
}
