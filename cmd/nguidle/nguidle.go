package main

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/qdbp/nguidle/cmd/nguidle/set"
	"github.com/qdbp/nguidle/pkg/loot"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type setCmd func(*cobra.Command, []string, loot.Params, set.Options) error

func cmdWrap(cmd *cobra.Command, v *viper.Viper, fn setCmd) *cobra.Command {
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		params := loot.DefaultParams()
		params.BaseProb = v.GetFloat64("base_prob")
		params.TTK = v.GetFloat64("ttk")
		params.BossChance = v.GetFloat64("boss_chance")

		qs, err := set.ParseQuantiles(v.GetStringSlice("quantiles"))
		if err != nil {
			return err
		}
		if len(qs) > 0 {
			params.Quantiles = qs
		}

		return fn(cmd, args, params, set.Options{Table: v.GetBool("table")})
	}

	return cmd
}

func initLogging(ctx context.Context, debug bool) context.Context {
	l := zap.Must(zap.NewProduction())
	if debug {
		l = zap.Must(zap.NewDevelopment())
	}
	zap.ReplaceGlobals(l)

	return ctxzap.ToContext(ctx, l)
}

// initConfig layers env vars and, when one is given, a config file under the
// bound flags.
func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("nguidle")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	return v.ReadInConfig()
}

func newRoot() *cobra.Command {
	var cfgFile string
	v := viper.New()

	root := &cobra.Command{
		Use:   "nguidle LEVEL...",
		Short: "Estimate how long it takes to complete a gear set",
		Long: "Each LEVEL is the current progress (0-100) of one item slot in the set.\n" +
			"Prints how many hours of play give a 50%, 90% and 99% chance to finish the set.",
		Args: cobra.MinimumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, cfgFile); err != nil {
				return err
			}
			cmd.SetContext(initLogging(cmd.Context(), v.GetBool("debug")))
			return nil
		},
	}

	defaults := loot.DefaultParams()

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file")
	root.PersistentFlags().Bool("debug", false, "enable debug logging")
	root.Flags().Float64("base_prob", defaults.BaseProb, "base probability of loot")
	root.Flags().Float64("ttk", defaults.TTK, "time to kill average mob")
	root.Flags().Float64("boss_chance", defaults.BossChance, "percentage of mobs that are bosses")
	root.Flags().StringSlice("quantiles", []string{"0.5", "0.9", "0.99"}, "completion odds to report")
	root.Flags().Bool("table", false, "also render a table of kills and hours")

	err := v.BindPFlag("debug", root.PersistentFlags().Lookup("debug"))
	cobra.CheckErr(err)
	for _, name := range []string{"base_prob", "ttk", "boss_chance", "quantiles", "table"} {
		err = v.BindPFlag(name, root.Flags().Lookup(name))
		cobra.CheckErr(err)
	}

	return cmdWrap(root, v, set.Run)
}

func main() {
	cobra.CheckErr(newRoot().ExecuteContext(context.Background()))
}
