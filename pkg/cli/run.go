package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/churn"
)

func newRunCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full training pipeline",
		Long: `Run loads the customer CSV, writes EDA charts, encodes and splits the data,
trains both models, writes result images and saves the models.

Examples:
  churn run
  churn run --data ./data/bank_data.csv --workers 4
  churn run --config churn.yaml --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config()
			if err != nil {
				return err
			}
			log, err := o.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := log.WithContext(cmd.Context())

			res, err := churn.Run(ctx, cfg)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().Int("workers", 0, "concurrent grid-search fold fits (overrides the config)")
	_ = o.v.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	return cmd
}

func printResult(w io.Writer, res *churn.Result) {
	bold := color.New(color.Bold)
	for _, e := range []churn.ModelEval{res.Eval.Forest, res.Eval.Logistic} {
		bold.Fprintf(w, "%s results\n", e.Name)
		fmt.Fprintln(w, "test results")
		fmt.Fprintln(w, e.Test.String())
		fmt.Fprintln(w, "train results")
		fmt.Fprintln(w, e.Train.String())
	}
	fmt.Fprintf(w, "best params: %s (cv accuracy %.4f)\n", res.Models.Grid.BestParams, res.Models.Grid.BestScore)
	fmt.Fprintf(w, "AUC: %s %.3f, %s %.3f\n",
		churn.ForestName, res.Eval.Forest.AUC, churn.LogisticName, res.Eval.Logistic.AUC)
	fmt.Fprintf(w, "run %s: %s\n", res.RunID, color.GreenString("done"))
}
