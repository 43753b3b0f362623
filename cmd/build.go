package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"classmin/internal/builder"
	"classmin/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Minify every document of the project",
	Long:  "Minify every document matched by classmin.yaml with one shared set of aliases and write the results to the output directory",
	Run: func(cmd *cobra.Command, args []string) {
		if !quietFlag {
			ui.PrintHeader(Version)
		}

		cfg, log := mustLoad(true)
		defer log.Sync()

		b := builder.New(cfg, log)
		b.Quiet = quietFlag

		if err := runBuild(b); err != nil {
			ui.PrintError("Build failed: %v", err)
			os.Exit(1)
		}
	},
}

// runBuild runs one build and prints its report. Per-file problems are
// printed as warnings; only a build that could not run is an error.
func runBuild(b *builder.Builder) error {
	report, err := b.Build()
	if report == nil {
		return err
	}
	for _, problem := range multierr.Errors(err) {
		ui.PrintWarning("%v", problem)
	}
	if b.Quiet {
		return nil
	}

	fmt.Println()
	fmt.Println(ui.Header("Files"))
	for _, file := range report.Files {
		ui.PrintKeyValue(file.Path, fmt.Sprintf("%d → %d bytes of CSS", file.OriginalBytes, file.MinifiedBytes))
	}
	fmt.Println()
	fmt.Println(ui.Header("Summary"))
	ui.PrintKeyValue("Files", "     "+fmt.Sprint(len(report.Files)))
	ui.PrintKeyValue("Classes", "   "+fmt.Sprint(report.Classes))
	ui.PrintSizes(report.OriginalBytes, report.MinifiedBytes)
	if b.Config.Audit {
		printAudit(report.Audit)
	}

	fmt.Println()
	fmt.Println(ui.Divider())
	fmt.Println()
	ui.PrintSuccess("Build complete!")
	ui.PrintInfo("Output written to %s", report.OutputDir)
	if report.AliasMap != "" {
		ui.PrintInfo("Alias map written to %s", report.AliasMap)
	}
	fmt.Println()
	return nil
}
