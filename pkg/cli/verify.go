package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/verify"
)

func newVerifyCmd(o *options) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Exercise every pipeline stage and log the outcome",
		Long: `Verify runs each stage in turn and writes one SUCCESS or ERROR line per
assertion to the log file (logs/churn_library.log by default), truncating it
first. A failing stage is logged and the remaining checks still run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config()
			if err != nil {
				return err
			}
			f, err := verify.OpenLog(cfg.Paths.LogFile)
			if err != nil {
				return err
			}
			defer f.Close()

			sum := verify.Run(cmd.Context(), cfg, verify.NewLogger(f, name))
			printSummary(cmd.OutOrStdout(), sum, cfg.Paths.LogFile)
			if !sum.OK() {
				return fmt.Errorf("%d of %d checks failed", sum.Failed(), len(sum.Checks))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "logger-name", verify.DefaultLoggerName, "logger name written in each log line")
	return cmd
}

func printSummary(w io.Writer, sum verify.Summary, logFile string) {
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()
	for _, c := range sum.Checks {
		switch {
		case c.Passed():
			fmt.Fprintf(w, "%s %s\n", pass("PASS"), c.Name)
		case c.Err != nil:
			fmt.Fprintf(w, "%s %s: %s\n", fail("FAIL"), c.Name, verify.Describe(c.Err))
		default:
			fmt.Fprintf(w, "%s %s: %d assertion(s) failed\n", fail("FAIL"), c.Name, c.Failures)
		}
	}
	fmt.Fprintf(w, "details in %s\n", logFile)
}
