package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"asmkit/internal/appcore"
	"asmkit/internal/cliutil"
)

func newStatsCmd(s *session) *cobra.Command {
	var o appcore.StatsOptions

	cmd := &cobra.Command{
		Use:   "stats [FILES...]",
		Short: "Count contigs and total sequence length per assembly",
		Long: "Reads every .fasta, .fa, .fna and .gz file in --in-dir plus any files given as\n" +
			"arguments and writes one row per file. Corrupt files get a zero row.",
		Example: `  asmkit stats --in-dir assemblies/ --cores 4
  asmkit stats 'assemblies/*.fa.gz' --out-table gz_stats.tsv`,
		RunE: s.run(func(ctx context.Context, args []string) error {
			files, err := cliutil.ExpandPositionals(args)
			if err != nil {
				return usage(err)
			}
			if o.InDir == "" && len(files) == 0 {
				return usage(errors.New("give --in-dir or at least one assembly file"))
			}
			o.Files = files
			_, err = appcore.Stats(ctx, s.env, o)
			return err
		}),
	}

	f := cmd.Flags()
	f.StringVarP(&o.InDir, "in-dir", "i", "", "directory of assemblies")
	f.StringSliceVarP(&o.Patterns, "pattern", "p", nil, "file name patterns selected in --in-dir (default *.fasta,*.fa,*.fna,*.gz)")
	f.StringVarP(&o.OutTable, "out-table", "o", "assembly_info_table.tsv", "output table (must not exist)")
	return cmd
}
