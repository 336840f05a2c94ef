// Package cli implements the churn command line.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/config"
)

// options are the settings shared by every subcommand. Flags are bound
// through a private viper instance so tests can build independent roots.
type options struct {
	v *viper.Viper
}

func (o *options) config() (config.Config, error) {
	cfg, err := config.Load(o.v.GetString("config"))
	if err != nil {
		return config.Config{}, err
	}
	if p := o.v.GetString("data"); p != "" {
		cfg.DataPath = p
	}
	if w := o.v.GetInt("workers"); w > 0 {
		cfg.Forest.Workers = w
	}
	return cfg, cfg.Validate()
}

// logger builds the stderr console logger at the configured level.
func (o *options) logger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(o.v.GetString("log-level"))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor}).
		Level(level).
		With().Timestamp().Logger(), nil
}

// NewRootCmd builds the churn command tree.
func NewRootCmd() *cobra.Command {
	o := &options{v: viper.New()}

	root := &cobra.Command{
		Use:   "churn",
		Short: "Predict customer churn",
		Long: `churn trains and evaluates customer churn classifiers on a bank customer CSV.

It runs exploratory plots, mean-churn encoding of categorical columns, a
70/30 split, a scaled logistic regression and a grid-searched random forest,
then writes result images and serialized models.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if o.v.GetBool("no-color") {
				color.NoColor = true
			}
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "YAML config file (defaults apply when empty)")
	pf.String("log-level", "info", "log level (debug, info, warn, error, disabled)")
	pf.Bool("no-color", false, "disable colored output")
	pf.String("data", "", "input CSV (overrides the config)")
	_ = o.v.BindPFlag("config", pf.Lookup("config"))
	_ = o.v.BindPFlag("log-level", pf.Lookup("log-level"))
	_ = o.v.BindPFlag("no-color", pf.Lookup("no-color"))
	_ = o.v.BindPFlag("data", pf.Lookup("data"))

	root.AddCommand(
		newRunCmd(o),
		newVerifyCmd(o),
		newSampleCmd(o),
		newHistoryCmd(o),
	)
	return root
}

// Execute runs the command line against os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
