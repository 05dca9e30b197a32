package nguidle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/qdbp/nguidle/pkg/bot"
	"github.com/qdbp/nguidle/pkg/loot"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// maxSetSlots matches the webhook's levels cap.
const maxSetSlots = 64

const setUsage = "Usage: `!set LEVEL... [base=P] [ttk=SECONDS] [boss=FRACTION] [q=0.5,0.9,0.99]`"

// parseSetCommand reads the arguments of a !set message. Bare integers are
// slot levels; key=value pairs override the plugin defaults.
func parseSetCommand(content string, defaults loot.Params) (loot.Params, error) {
	params := defaults
	params.Levels = nil

	for _, field := range strings.Fields(content) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			level, err := strconv.Atoi(field)
			if err != nil {
				return loot.Params{}, fmt.Errorf("invalid level %q", field)
			}
			params.Levels = append(params.Levels, level)
			continue
		}

		switch strings.ToLower(key) {
		case "base", "base_prob":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return loot.Params{}, fmt.Errorf("invalid base probability %q", value)
			}
			params.BaseProb = v
		case "ttk":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return loot.Params{}, fmt.Errorf("invalid ttk %q", value)
			}
			params.TTK = v
		case "boss", "boss_chance":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return loot.Params{}, fmt.Errorf("invalid boss chance %q", value)
			}
			params.BossChance = v
		case "q", "quantiles":
			params.Quantiles = nil
			for _, raw := range strings.Split(value, ",") {
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return loot.Params{}, fmt.Errorf("invalid quantile %q", raw)
				}
				params.Quantiles = append(params.Quantiles, v)
			}
		default:
			return loot.Params{}, fmt.Errorf("unknown option %q", key)
		}
	}

	if len(params.Levels) == 0 {
		return loot.Params{}, errors.New("no levels specified")
	}
	if len(params.Levels) > maxSetSlots {
		return loot.Params{}, fmt.Errorf("too many levels: %d, at most %d", len(params.Levels), maxSetSlots)
	}

	return params, nil
}

func formatSetReply(params loot.Params, estimates []loot.Estimate) string {
	printer := message.NewPrinter(language.English)

	var output strings.Builder
	output.WriteString("```\n")
	output.WriteString(fmt.Sprintf("Set levels %v (base %.3g, %gs per kill, %g%% bosses):\n",
		params.Levels, params.BaseProb, params.TTK, params.BossChance*100))
	for _, e := range estimates {
		output.WriteString(loot.FormatEstimate(e))
		output.WriteString(printer.Sprintf(" (%d boss kills)\n", e.Kills))
	}
	output.WriteString("```")

	return output.String()
}

// setReply answers a !set message body.
func (p *plugin) setReply(content string) (string, error) {
	params, err := parseSetCommand(content, p.defaults)
	if err != nil {
		return "", err
	}

	estimates, err := params.Run()
	if err != nil {
		return "", err
	}

	return formatSetReply(params, estimates), nil
}

func (p *plugin) setCmd(ctx context.Context) bot.MessageHandler {
	l := ctxzap.Extract(ctx)

	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author.ID == s.State.User.ID {
			return
		}

		if m.Content != "!set" && !strings.HasPrefix(m.Content, "!set ") {
			return
		}

		content := strings.TrimSpace(strings.TrimPrefix(m.Content, "!set"))
		l.Info(
			"Processing set command",
			zap.String("args", content),
			zap.String("from", m.Author.Username),
			zap.String("channel", m.ChannelID),
		)

		reply, err := p.setReply(content)
		if err != nil {
			l.Info("Rejected set command", zap.Error(err))
			s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Error: %s\n%s", err, setUsage))
			return
		}

		s.ChannelMessageSend(m.ChannelID, reply)
	}
}
