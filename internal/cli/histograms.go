package cli

import (
	"context"

	"github.com/spf13/cobra"

	"asmkit/internal/appcore"
)

func newHistogramsCmd(s *session) *cobra.Command {
	var o appcore.HistogramOptions

	cmd := &cobra.Command{
		Use:   "histograms",
		Short: "Show contig count and assembly length distributions of a stats table",
		Args:  cobra.NoArgs,
		RunE: s.run(func(ctx context.Context, _ []string) error {
			return appcore.Histograms(ctx, s.env, o)
		}),
	}

	f := cmd.Flags()
	f.StringVarP(&o.InTable, "in-table", "i", "", "stats table written by 'asmkit stats'")
	f.StringVarP(&o.Out, "out", "o", "", "write the report here instead of stdout (must not exist)")
	_ = cmd.MarkFlagRequired("in-table")
	return cmd
}
