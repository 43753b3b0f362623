package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"classmin/internal/obfuscator"
	"classmin/internal/ui"
)

var (
	minifyOutput    string
	minifyWhitelist []string
	minifyAlphabet  string
	minifyCompact   bool
	minifyAudit     bool
)

var minifyCmd = &cobra.Command{
	Use:   "minify <file>",
	Short: "Minify the class names of a single HTML document",
	Long: `Minify the class names of a single HTML document.

The document is read from <file>, or from standard input when <file> is "-".
Without --output the result is written to standard output and no report is
printed, so the command can be used in a pipe.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// The document itself goes to stdout, so the console stays silent
		toStdout := minifyOutput == ""
		if toStdout {
			quietFlag = true
		}
		report := !quietFlag

		cfg, log := mustLoad(false)
		defer log.Sync()

		content, err := readInput(args[0])
		if err != nil {
			ui.PrintError("Failed to read %s: %v", args[0], err)
			os.Exit(1)
		}

		alphabet := cfg.Alphabet
		if cmd.Flags().Changed("alphabet") {
			alphabet = minifyAlphabet
		}
		if alphabet == "" {
			alphabet = obfuscator.DefaultAlphabet
		}
		compact := cfg.Compact
		if cmd.Flags().Changed("compact") {
			compact = minifyCompact
		}

		m, err := obfuscator.New(
			obfuscator.WithLogger(log),
			obfuscator.WithAlphabet(alphabet),
			obfuscator.WithWhitelist(cfg.Whitelist...),
			obfuscator.WithWhitelist(minifyWhitelist...),
			obfuscator.WithCompact(compact),
		)
		if err != nil {
			ui.PrintError("Invalid options: %v", err)
			os.Exit(1)
		}

		result := m.Minify(content)

		if toStdout {
			fmt.Print(result.Minified)
		} else if err := os.WriteFile(minifyOutput, []byte(result.Minified), 0644); err != nil {
			ui.PrintError("Failed to write %s: %v", minifyOutput, err)
			os.Exit(1)
		}

		if !report {
			return
		}

		fmt.Println()
		ui.PrintSuccess("Minified %s", args[0])
		fmt.Println()
		ui.PrintKeyValue("Classes", "   "+fmt.Sprint(len(m.ClassNames())))
		ui.PrintSizes(result.OriginalBytes, result.MinifiedBytes)
		if minifyAudit || cfg.Audit {
			printAudit(m.AuditDocument(result.Minified))
		}
		fmt.Println()
	},
}

func init() {
	minifyCmd.Flags().StringVarP(&minifyOutput, "output", "o", "", "Write the result to this file instead of standard output")
	minifyCmd.Flags().StringSliceVarP(&minifyWhitelist, "whitelist", "w", nil, "Extra class name fragments to keep (comma separated)")
	minifyCmd.Flags().StringVar(&minifyAlphabet, "alphabet", "", "Symbols used for aliases")
	minifyCmd.Flags().BoolVar(&minifyCompact, "compact", false, "Compact whitespace and comments of rebuilt stylesheets")
	minifyCmd.Flags().BoolVar(&minifyAudit, "audit", false, "Parse rebuilt stylesheets and report problems")
}

func readInput(name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(name)
	return string(data), err
}

// printAudit prints the audit summary and each problem found
func printAudit(audit obfuscator.AuditReport) {
	ui.PrintKeyValue("Audit", fmt.Sprintf("     %d sheets, %d rules, %d declarations, %d at-rules",
		audit.Sheets, audit.Rules, audit.Declarations, audit.AtRules))
	for _, problem := range audit.Problems {
		ui.PrintWarning("Stylesheet problem at offset %d: %s", problem.Offset, problem.Message)
	}
}
