package cli

import (
	"context"

	"github.com/spf13/cobra"

	"asmkit/internal/appcore"
	"asmkit/internal/fetch"
)

func newDownloadCmd(s *session) *cobra.Command {
	var (
		o       appcore.DownloadOptions
		taxonID string
		orgName string
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the assemblies of a metadata table matching a taxon or organism",
		Long: "Selects rows of a table written by 'asmkit metadata' by taxon id or by a word of\n" +
			"the scientific name and downloads each assembly once. Existing files are skipped.",
		Args: cobra.NoArgs,
		RunE: s.run(func(ctx context.Context, _ []string) error {
			sel, err := fetch.NewSelector(taxonID, orgName)
			if err != nil {
				return usage(err)
			}
			o.Selector = sel
			o.Timeout = s.cfg.RequestTimeout
			_, err = appcore.Download(ctx, s.env, o)
			return err
		}),
	}

	f := cmd.Flags()
	f.StringVarP(&o.InfoTable, "info-table", "i", "", "metadata table written by 'asmkit metadata'")
	f.StringVarP(&taxonID, "taxon-id", "t", "", "download rows with this taxon id")
	f.StringVarP(&orgName, "org-name", "n", "", "download rows whose scientific name contains this word")
	f.StringVarP(&o.OutDir, "output-dir", "o", ".", "existing directory to download into")
	f.Int("request-timeout", int(fetch.DefaultTimeout.Seconds()), "seconds before one download is abandoned")
	_ = cmd.MarkFlagRequired("info-table")
	cmd.MarkFlagsMutuallyExclusive("taxon-id", "org-name")
	cmd.MarkFlagsOneRequired("taxon-id", "org-name")
	return cmd
}
