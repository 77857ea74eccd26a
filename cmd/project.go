package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/shoestat-cli/internal/project"
	"github.com/KaramelBytes/shoestat-cli/internal/sales"
	"github.com/KaramelBytes/shoestat-cli/internal/sampling"
)

var (
	pmProject  string
	pmClear    bool
	pmSampling samplingFlags
	pmRunID    string
)

// samplingFlags are the per-project sampling overrides.
type samplingFlags struct {
	fraction float64
	seed     int64
	by       string
}

func (f *samplingFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.fraction, "fraction", 0, "sample fraction in (0,1]")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "sampling seed")
	cmd.Flags().StringVar(&f.by, "stratify-by", "", "stratification field: shoe_type | country")
}

// apply copies the flags the user set into c and reports whether any was set.
func (f *samplingFlags) apply(cmd *cobra.Command, c *project.ProjectConfig) (bool, error) {
	fl := cmd.Flags()
	set := false
	if fl.Changed("fraction") {
		if f.fraction <= 0 || f.fraction > 1 {
			return false, sampling.ErrInvalidFraction
		}
		v := f.fraction
		c.SampleFraction = &v
		set = true
	}
	if fl.Changed("seed") {
		v := f.seed
		c.Seed = &v
		set = true
	}
	if fl.Changed("stratify-by") {
		by, err := sales.ParseField(f.by)
		if err != nil || !by.IsCategorical() {
			return false, fmt.Errorf("invalid --stratify-by %q (use shoe_type or country)", f.by)
		}
		c.StratifyBy = string(by)
		set = true
	}
	return set, nil
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage per-project settings and runs",
}

var projectSetSamplingCmd = &cobra.Command{
	Use:   "set-sampling",
	Short: "Set or clear a project's sampling overrides",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pmProject == "" {
			return fmt.Errorf("--project is required")
		}
		p, err := loadProjectByName(pmProject)
		if err != nil {
			return err
		}
		if p.Config == nil || pmClear {
			p.Config = &project.ProjectConfig{}
		}
		if !pmClear {
			set, err := pmSampling.apply(cmd, p.Config)
			if err != nil {
				return err
			}
			if !set {
				return fmt.Errorf("set at least one of --fraction, --seed, --stratify-by unless --clear is set")
			}
		}
		if err := p.Save(); err != nil {
			return err
		}
		if pmClear {
			fmt.Printf("✓ Cleared sampling overrides for %s\n", pmProject)
		} else {
			fmt.Printf("✓ Updated sampling overrides for %s\n", pmProject)
		}
		return nil
	},
}

var projectRemoveRunCmd = &cobra.Command{
	Use:   "remove-run",
	Short: "Remove an analysis run and its summary from a project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pmProject == "" || pmRunID == "" {
			return fmt.Errorf("--project and --run are required")
		}
		p, err := loadProjectByName(pmProject)
		if err != nil {
			return err
		}
		if err := p.RemoveRun(pmRunID); err != nil {
			return err
		}
		if err := p.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Removed run %s from %s\n", pmRunID, pmProject)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectSetSamplingCmd)
	projectCmd.AddCommand(projectRemoveRunCmd)

	projectCmd.PersistentFlags().StringVarP(&pmProject, "project", "p", "", "project name")
	projectSetSamplingCmd.Flags().BoolVar(&pmClear, "clear", false, "clear the project's sampling overrides")
	pmSampling.register(projectSetSamplingCmd)
	projectRemoveRunCmd.Flags().StringVar(&pmRunID, "run", "", "run id (see list --runs)")
}
