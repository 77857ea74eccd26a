package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag of c and its subcommands to its default so
// values and Changed state do not leak between invocations.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(args ...string) error {
	resetFlags(rootCmd)
	cfg = nil
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) {
	t.Helper()
	if err := execute(args...); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

// isolatedHome points HOME at a temp dir so config and projects stay local.
func isolatedHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Cleanup(func() { cfg = nil })
	return home
}

// writeSalesCSV writes 30 boots and 20 sneakers with one duplicate line and
// one missing size.
func writeSalesCSV(t *testing.T, path string) {
	t.Helper()
	var b strings.Builder
	b.WriteString("fecha_venta,tipo_calzado,pais,local_id,medida_item,venta_item,utilidad,cantidad\n")
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "2024-01-%02d,Boot,Chile,%d,%d,%d,%d,1\n", i%28+1, i%3+1, 39+i%4, 90+i, 20+i%7)
	}
	for i := 0; i < 20; i++ {
		size := fmt.Sprint(37 + i%3)
		if i == 5 {
			size = ""
		}
		fmt.Fprintf(&b, "2024-02-%02d,Sneaker,Peru,%d,%s,%d,%d,2\n", i+1, i%2+4, size, 50+i, 8+i%5)
	}
	b.WriteString("2024-02-01,Sneaker,Peru,4,37,50,8,2\n")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
}
