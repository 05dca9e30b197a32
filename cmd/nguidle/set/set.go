package set

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/pterm/pterm"
	"github.com/qdbp/nguidle/pkg/loot"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Options controls how the estimate is printed.
type Options struct {
	Table bool
}

func Run(cmd *cobra.Command, args []string, params loot.Params, opts Options) error {
	l := ctxzap.Extract(cmd.Context())

	levels, err := ParseLevels(args)
	if err != nil {
		return err
	}
	params.Levels = levels

	l.Debug(
		"Estimating set completion",
		zap.Ints("levels", params.Levels),
		zap.Float64("base_prob", params.BaseProb),
		zap.Float64("ttk", params.TTK),
		zap.Float64("boss_chance", params.BossChance),
		zap.Float64s("quantiles", params.Quantiles),
	)

	estimates, err := params.Run()
	if err != nil {
		return err
	}

	for _, e := range estimates {
		l.Debug("Estimate", zap.Float64("quantile", e.Quantile), zap.Int("kills", e.Kills), zap.Float64("hours", e.Hours))
	}

	return Report(cmd.OutOrStdout(), estimates, opts)
}

// Report writes one line per estimate, followed by a table when requested.
func Report(w io.Writer, estimates []loot.Estimate, opts Options) error {
	for _, e := range estimates {
		pterm.Fprintln(w, loot.FormatEstimate(e))
	}

	if !opts.Table {
		return nil
	}

	printer := message.NewPrinter(language.English)

	var tableData [][]string
	for _, e := range estimates {
		tableData = append(tableData, []string{
			printer.Sprintf("%g%%", e.Quantile*100),
			printer.Sprintf("%d", e.Kills),
			printer.Sprintf("%.2f", e.Hours),
		})
	}

	table, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithData(append([][]string{{"Chance", "Kills", "Hours"}}, tableData...)).Srender()
	if err != nil {
		return err
	}
	pterm.Fprintln(w, table)

	return nil
}

// ParseLevels converts positional arguments into slot levels.
func ParseLevels(args []string) ([]int, error) {
	levels := make([]int, 0, len(args))
	for _, arg := range args {
		level, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return nil, fmt.Errorf("invalid level %q: %w", arg, err)
		}
		levels = append(levels, level)
	}
	return levels, nil
}

// ParseQuantiles accepts quantiles as separate values, comma lists or
// whitespace lists, so flag and environment forms read the same.
func ParseQuantiles(raw []string) ([]float64, error) {
	var qs []float64
	for _, r := range raw {
		for _, field := range strings.FieldsFunc(r, func(c rune) bool { return c == ',' || c == ' ' || c == '\t' }) {
			q, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid quantile %q: %w", field, err)
			}
			qs = append(qs, q)
		}
	}
	return qs, nil
}
