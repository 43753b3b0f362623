package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"classmin/internal/config"
	"classmin/internal/ui"
)

var (
	initForce       bool
	initInteractive bool
	initOutput      string
	initInclude     []string
	initWhitelist   []string
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a classmin.yaml project file",
	Long:  "Create a classmin.yaml with default settings in the current directory or in dir",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ui.PrintHeader(Version)

		dir, err := os.Getwd()
		if err != nil {
			ui.PrintError("Failed to get current directory: %v", err)
			os.Exit(1)
		}
		if len(args) > 0 {
			dir = args[0]
			if err := os.MkdirAll(dir, 0755); err != nil {
				ui.PrintError("Failed to create directory %s: %v", dir, err)
				os.Exit(1)
			}
		}

		if config.Exists(dir) && !initForce {
			ui.PrintWarning("%s already exists (use --force to overwrite)", config.FileName)
			os.Exit(1)
		}

		cfg := config.Default()
		if len(initInclude) > 0 {
			cfg.Include = initInclude
		}
		if initOutput != "" {
			cfg.Output = initOutput
		}
		cfg.Whitelist = initWhitelist

		if initInteractive {
			reader := bufio.NewReader(os.Stdin)
			ui.PrintInfo("Let's set up your project!")
			fmt.Println()
			cfg.Include = splitAnswer(prompt(reader, "Include patterns", strings.Join(cfg.Include, ", ")))
			cfg.Output = prompt(reader, "Output directory", cfg.Output)
			cfg.Whitelist = splitAnswer(prompt(reader, "Class fragments to keep", strings.Join(cfg.Whitelist, ", ")))
			cfg.AliasMap = prompt(reader, "Alias map file (empty for none)", "")
			fmt.Println()
		}

		if err := cfg.Validate(); err != nil {
			ui.PrintError("Invalid settings: %v", err)
			os.Exit(1)
		}
		if err := cfg.Save(dir); err != nil {
			ui.PrintError("%v", err)
			os.Exit(1)
		}

		ui.PrintSuccess("Created %s", filepath.Join(dir, config.FileName))
		fmt.Println()
		ui.PrintInfo("Run 'classmin build' to minify your documents")
		fmt.Println()
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing classmin.yaml")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "Ask for each setting")
	initCmd.Flags().StringVar(&initOutput, "output", "", "Output directory (default \"build\")")
	initCmd.Flags().StringSliceVar(&initInclude, "include", nil, "Include patterns (default \"**/*.html\")")
	initCmd.Flags().StringSliceVar(&initWhitelist, "whitelist", nil, "Class name fragments to keep")
}

func prompt(reader *bufio.Reader, label, defaultValue string) string {
	if defaultValue != "" {
		fmt.Printf("  %s [%s]: ", label, defaultValue)
	} else {
		fmt.Printf("  %s: ", label)
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultValue
	}
	return input
}

// splitAnswer splits a comma separated answer into its non-empty items
func splitAnswer(answer string) []string {
	var items []string
	for _, item := range strings.Split(answer, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
