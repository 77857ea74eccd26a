package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/shoestat-cli/internal/parser"
	"github.com/KaramelBytes/shoestat-cli/internal/pipeline"
)

var (
	clCleanedPath string
	clSamplePath  string
	clFlags       runFlags
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Run the cleaning pipeline and write the cleaned dataset and/or the sample",
	Long: `Run type normalization, de-duplication, size imputation, outlier capping and
stratified sampling, then write the cleaned dataset (--cleaned) and/or the
sample (--sample). The output format follows the extension: .csv, .tsv or .xlsx.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if clCleanedPath == "" && clSamplePath == "" {
			return fmt.Errorf("specify at least one of --cleaned or --sample")
		}
		popt, opt, err := clFlags.options(cmd, nil)
		if err != nil {
			return err
		}
		raw, err := parser.ParseFile(args[0], popt)
		if err != nil {
			return err
		}
		res, err := pipeline.Run(commandContext(cmd), raw, opt)
		if err != nil {
			return err
		}
		st := res.Stats
		if clCleanedPath != "" {
			if err := parser.WriteFile(clCleanedPath, res.Cleaned); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote %d cleaned rows to %s\n", res.Cleaned.Len(), clCleanedPath)
		}
		if clSamplePath != "" {
			if err := parser.WriteFile(clSamplePath, res.Sample.Dataset()); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote %d sampled rows to %s\n", res.Sample.Len(), clSamplePath)
		}
		fmt.Printf("  raw %d, duplicates %d, sizes imputed %d (mode %g)\n",
			st.RawRows, st.Duplicates, st.Imputation.Filled, st.Imputation.Mode)
		for _, w := range st.Warnings() {
			fmt.Printf("⚠ %s\n", w)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVar(&clCleanedPath, "cleaned", "", "path for the cleaned dataset (.csv, .tsv, .xlsx)")
	cleanCmd.Flags().StringVar(&clSamplePath, "sample", "", "path for the stratified sample (.csv, .tsv, .xlsx)")
	clFlags.register(cleanCmd)
}
