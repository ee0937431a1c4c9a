package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/verilog-tmpl/internal/registry"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/validator"
)

var opsRequireFlag string

// opsCmd represents the ops command
var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "List template operations",
	Long: `Ops prints the version of the operation set and the name of every
operation available to templates.

With --require, ops fails unless the operation set satisfies the given
semantic version constraint, e.g. --require ">= 1.0, < 2.0".`,
	Args: cobra.NoArgs,
	RunE: runOps,
}

func init() {
	rootCmd.AddCommand(opsCmd)
	opsCmd.Flags().StringVar(&opsRequireFlag, "require", "", "fail unless the operation set satisfies this version constraint")
}

func runOps(cmd *cobra.Command, args []string) error {
	reg, err := registry.New(registry.WithReporter(validator.Discard))
	if err != nil {
		return err
	}

	if opsRequireFlag != "" {
		ok, err := reg.Compatible(opsRequireFlag)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("operation set %s does not satisfy %q", reg.Version(), opsRequireFlag)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "operations %s\n", reg.Version())
	for _, name := range reg.Names() {
		fmt.Fprintf(out, "  %s\n", name)
	}
	return nil
}
