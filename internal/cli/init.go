package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/verilog-tmpl/internal/config"
)

var initForceFlag bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a verilog_tmpl.yaml configuration file",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForceFlag, "force", "f", false, "overwrite an existing config file without asking")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := config.FileName + ".yaml"
	out := cmd.OutOrStdout()

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil && !initForceFlag {
		fmt.Fprintf(out, "Config file %s already exists. Overwrite? [y/N]: ", configPath)
		var response string
		fmt.Fscanln(cmd.InOrStdin(), &response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("creating config: %w", err)
	}

	fmt.Fprintf(out, "Created %s\n", configPath)
	fmt.Fprintln(out, "\nEdit this file to configure:")
	fmt.Fprintln(out, "  - Indentation and instance name prefix")
	fmt.Fprintln(out, "  - Template delimiters and missing key handling")
	fmt.Fprintln(out, "  - Template patterns rendered by 'verilog-tmpl render'")
	return nil
}
