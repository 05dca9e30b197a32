package nguidle

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/qdbp/nguidle/pkg/bot"
	"github.com/qdbp/nguidle/pkg/loot"
	"go.uber.org/zap"
)

type plugin struct {
	defaults loot.Params
}

func (p *plugin) Name() string {
	return "nguidle"
}

func (p *plugin) Load(ctx context.Context) []bot.Option {
	ctxzap.Extract(ctx).Info(
		"Loading set estimator",
		zap.Float64("base_prob", p.defaults.BaseProb),
		zap.Float64("ttk", p.defaults.TTK),
		zap.Float64("boss_chance", p.defaults.BossChance),
	)

	return []bot.Option{
		bot.WithMessageHandler(p.setCmd(ctx)),
		bot.WithWebhook(p.Name(), p.setupWebhookRoutes(ctx)),
	}
}

func (p *plugin) Close(ctx context.Context) error {
	return nil
}

// New returns the set estimator plugin. defaults fill in whatever a chat
// command or webhook request leaves out.
func New(defaults loot.Params) bot.Plugin {
	return &plugin{defaults: defaults}
}
