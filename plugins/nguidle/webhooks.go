package nguidle

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/qdbp/nguidle/pkg/bot"
	"github.com/qdbp/nguidle/pkg/loot"
	"go.uber.org/zap"
)

func (p *plugin) setupWebhookRoutes(ctx context.Context) bot.WebhookRouterSetup {
	return func(router *gin.RouterGroup, s *discordgo.Session) {
		router.GET("", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"available_actions": []string{"set"},
				"usage":             "POST /webhook/nguidle/set with {\"levels\": [0, 50, 100]}",
				"defaults": setRequest{
					BaseProb:   &p.defaults.BaseProb,
					TTK:        &p.defaults.TTK,
					BossChance: &p.defaults.BossChance,
					Quantiles:  p.defaults.Quantiles,
				},
			})
		})

		router.POST("/set", func(c *gin.Context) {
			p.handleSetWebhook(ctx, c)
		})
	}
}

// maxSetBody caps the POST /set body in bytes.
const maxSetBody = 16 << 10

type setRequest struct {
	Levels     []int     `json:"levels,omitempty" binding:"max=64"`
	BaseProb   *float64  `json:"base_prob,omitempty"`
	TTK        *float64  `json:"ttk,omitempty"`
	BossChance *float64  `json:"boss_chance,omitempty"`
	Quantiles  []float64 `json:"quantiles,omitempty" binding:"max=16"`
}

type setResponse struct {
	Estimates []loot.Estimate `json:"estimates"`
	Hours     []float64       `json:"hours"`
}

func (r *setRequest) params(defaults loot.Params) loot.Params {
	params := defaults
	params.Levels = r.Levels
	if r.BaseProb != nil {
		params.BaseProb = *r.BaseProb
	}
	if r.TTK != nil {
		params.TTK = *r.TTK
	}
	if r.BossChance != nil {
		params.BossChance = *r.BossChance
	}
	if len(r.Quantiles) > 0 {
		params.Quantiles = r.Quantiles
	}
	return params
}

func (p *plugin) handleSetWebhook(ctx context.Context, c *gin.Context) {
	l := ctxzap.Extract(ctx)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSetBody)

	req := &setRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("invalid request: %s", err.Error())})
		return
	}

	params := req.params(p.defaults)
	l.Info(
		"Processing set webhook",
		zap.Ints("levels", params.Levels),
		zap.Float64("base_prob", params.BaseProb),
		zap.Float64("ttk", params.TTK),
		zap.Float64("boss_chance", params.BossChance),
	)

	estimates, err := params.Run()
	if err != nil {
		status := 500
		if errors.Is(err, loot.ErrInvalidParameter) {
			status = 400
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, setResponse{
		Estimates: estimates,
		Hours:     loot.Hours(estimates),
	})
}
