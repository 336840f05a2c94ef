package cli

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/store"
)

func newHistoryCmd(o *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded pipeline runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.Paths.RunsDB)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.List()
			if err != nil {
				return err
			}
			if limit > 0 && len(runs) > limit {
				runs = runs[len(runs)-limit:]
			}
			w := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(w, "no runs recorded")
				return nil
			}
			for _, r := range runs {
				status := color.GreenString("ok")
				if r.Err != "" {
					status = color.RedString("failed: %s", r.Err)
				}
				fmt.Fprintf(w, "%s  %s  rows=%d  %s\n", r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Rows, status)
				keys := make([]string, 0, len(r.Scores))
				for k := range r.Scores {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(w, "    %-36s %.4f\n", k, r.Scores[k])
				}
				if r.BestGrid != "" {
					fmt.Fprintf(w, "    best forest: %s (cv %.4f)\n", r.BestGrid, r.CVScore)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "show at most this many recent runs (0 for all)")
	return cmd
}
