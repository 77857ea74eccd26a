package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/shoestat-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set shoestat configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := currentConfig()
		if err != nil {
			return err
		}
		fmt.Printf("sample_fraction: %.4g\n", cfg.SampleFraction)
		fmt.Printf("seed: %d\n", cfg.Seed)
		fmt.Printf("stratify_by: %s\n", cfg.StratifyBy)
		fmt.Printf("outlier_fields: %s\n", strings.Join(cfg.OutlierFields, ","))
		fmt.Printf("iqr_multiplier: %.4g\n", cfg.IQRMultiplier)
		if len(cfg.ColumnAliases) > 0 {
			keys := make([]string, 0, len(cfg.ColumnAliases))
			for k := range cfg.ColumnAliases {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Println("column_aliases:")
			for _, k := range keys {
				fmt.Printf("  %s: %s\n", k, cfg.ColumnAliases[k])
			}
		}
		fmt.Printf("top_sizes: %d\n", cfg.TopSizes)
		fmt.Printf("top_quantities: %d\n", cfg.TopQuantities)
		fmt.Printf("top_shoe_types: %d\n", cfg.TopShoeTypes)
		fmt.Printf("size_columns: %d\n", cfg.SizeColumns)
		fmt.Printf("store_columns: %d\n", cfg.StoreColumns)
		fmt.Printf("log_level: %s\n", cfg.LogLevel)
		fmt.Printf("log_format: %s\n", cfg.LogFormat)
		fmt.Printf("output_format: %s\n", cfg.OutputFormat)
		fmt.Printf("projects_dir: %s\n", cfg.ProjectsDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.

List keys take comma-separated values (outlier_fields). Column aliases are set
one at a time as "column_aliases.<header> <field>"; an empty field removes it.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := currentConfig()
		if err != nil {
			return err
		}
		if err := setConfigKey(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func setConfigKey(c *cfgpkg.Global, key, val string) error {
	if alias, ok := strings.CutPrefix(key, "column_aliases."); ok {
		if alias == "" {
			return fmt.Errorf("column alias name is required")
		}
		if c.ColumnAliases == nil {
			c.ColumnAliases = map[string]string{}
		}
		if val == "" {
			delete(c.ColumnAliases, alias)
		} else {
			c.ColumnAliases[alias] = val
		}
		return nil
	}
	switch key {
	case "sample_fraction":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for sample_fraction: %w", err)
		}
		c.SampleFraction = f
	case "seed":
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid int for seed: %w", err)
		}
		c.Seed = i
	case "stratify_by":
		c.StratifyBy = strings.TrimSpace(val)
	case "outlier_fields":
		var fields []string
		for _, f := range strings.Split(val, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
		c.OutlierFields = fields
	case "iqr_multiplier":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for iqr_multiplier: %w", err)
		}
		c.IQRMultiplier = f
	case "top_sizes", "top_quantities", "top_shoe_types", "size_columns", "store_columns":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %w", key, err)
		}
		switch key {
		case "top_sizes":
			c.TopSizes = i
		case "top_quantities":
			c.TopQuantities = i
		case "top_shoe_types":
			c.TopShoeTypes = i
		case "size_columns":
			c.SizeColumns = i
		case "store_columns":
			c.StoreColumns = i
		}
	case "log_level":
		c.LogLevel = strings.ToLower(val)
	case "log_format":
		c.LogFormat = strings.ToLower(val)
	case "output_format":
		c.OutputFormat = strings.ToLower(val)
	case "projects_dir":
		c.ProjectsDir = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
