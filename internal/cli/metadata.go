package cli

import (
	"context"

	"github.com/spf13/cobra"

	"asmkit/internal/appcore"
	"asmkit/internal/ena"
)

func newMetadataCmd(s *session) *cobra.Command {
	var o appcore.MetadataOptions

	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Build a sample metadata table from the ENA browser API",
		Long: "Reads 'accession path' lines and writes one row per sample with alias, ENA\n" +
			"accession, broker, taxon id and scientific name. Fields ENA cannot supply are NA.",
		Args: cobra.NoArgs,
		RunE: s.run(func(ctx context.Context, _ []string) error {
			o.XMLURL = s.cfg.XMLURL
			o.FTPURL = s.cfg.FTPURL
			o.Timeout = s.cfg.RequestTimeout
			_, err := appcore.Metadata(ctx, s.env, o)
			return err
		}),
	}

	f := cmd.Flags()
	f.StringVarP(&o.Samples, "samples", "s", "", "whitespace-separated file of accession and assembly path")
	f.StringVarP(&o.OutTable, "output-table", "o", "cobsi_sample_information.tsv", "output table (must not exist)")
	f.Int("request-timeout", int(ena.DefaultTimeout.Seconds()), "seconds before one metadata request is abandoned")
	_ = cmd.MarkFlagRequired("samples")
	return cmd
}
