package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"classmin/internal/ui"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for classmin.

Document arguments complete to .html and .htm files, --config completes to
YAML files and the init directory completes to directories.

To load completions:

Bash:
  $ source <(classmin completion bash)

Zsh:
  $ classmin completion zsh > "${fpath[1]}/_classmin"

Fish:
  $ classmin completion fish | source

PowerShell:
  PS> classmin completion powershell | Out-String | Invoke-Expression

Or run 'classmin completion install' to set up the current shell.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeCompletion(args[0], os.Stdout); err != nil {
			ui.PrintError("%v", err)
			os.Exit(1)
		}
	},
}

var completionInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install shell completion for your current shell",
	Run: func(cmd *cobra.Command, args []string) {
		home, err := os.UserHomeDir()
		if err != nil {
			ui.PrintError("Could not find home directory: %v", err)
			os.Exit(1)
		}

		target, err := completionTargetFor(detectShell(os.Getenv("SHELL")), home)
		if err != nil {
			ui.PrintError("%v", err)
			os.Exit(1)
		}

		if err := target.install(); err != nil {
			ui.PrintError("%v", err)
			os.Exit(1)
		}
		ui.PrintSuccess("Installed completion script to %s", target.file)

		if target.rcFile == "" {
			return
		}
		updated, err := target.updateRC()
		if err != nil {
			ui.PrintWarning("Could not update %s: %v", target.rcFile, err)
			ui.PrintInfo("Please add manually: %s", strings.TrimSpace(target.sourceLine))
			return
		}
		if updated {
			ui.PrintSuccess("Updated %s", target.rcFile)
		}
		fmt.Println()
		ui.PrintInfo("Restart your shell or run: source %s", target.rcFile)
	},
}

// completionTarget is where a shell looks for the classmin completion script
type completionTarget struct {
	shell      string
	dir        string
	file       string
	rcFile     string
	sourceLine string
}

func completionTargetFor(shell, home string) (*completionTarget, error) {
	t := &completionTarget{shell: shell}
	switch shell {
	case "zsh":
		t.dir = filepath.Join(home, ".zsh", "completions")
		t.file = filepath.Join(t.dir, "_classmin")
		t.rcFile = filepath.Join(home, ".zshrc")
		t.sourceLine = fmt.Sprintf("\nfpath=(%s $fpath)\nautoload -Uz compinit && compinit\n", t.dir)
	case "bash":
		t.dir = filepath.Join(home, ".bash_completion.d")
		t.file = filepath.Join(t.dir, "classmin")
		t.rcFile = filepath.Join(home, ".bashrc")
		t.sourceLine = fmt.Sprintf("\n[ -f %s ] && source %s\n", t.file, t.file)
	case "fish":
		// Fish loads everything in its completions directory
		t.dir = filepath.Join(home, ".config", "fish", "completions")
		t.file = filepath.Join(t.dir, "classmin.fish")
	case "":
		return nil, fmt.Errorf("could not detect shell, use 'classmin completion [bash|zsh|fish|powershell]' manually")
	default:
		return nil, fmt.Errorf("auto-install not supported for %s, use 'classmin completion %s' manually", shell, shell)
	}
	return t, nil
}

// install writes the completion script
func (t *completionTarget) install() error {
	if err := os.MkdirAll(t.dir, 0755); err != nil {
		return fmt.Errorf("failed to create completion directory: %w", err)
	}
	f, err := os.Create(t.file)
	if err != nil {
		return fmt.Errorf("failed to create completion file: %w", err)
	}
	if err := writeCompletion(t.shell, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// updateRC appends the source line to the rc file unless it already points
// at the completion script. It reports whether the file was changed.
func (t *completionTarget) updateRC() (bool, error) {
	content, err := os.ReadFile(t.rcFile)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	marker := t.file
	if t.shell == "zsh" {
		marker = t.dir
	}
	if strings.Contains(string(content), marker) {
		return false, nil
	}

	f, err := os.OpenFile(t.rcFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return false, err
	}
	if _, err := f.WriteString(t.sourceLine); err != nil {
		f.Close()
		return false, err
	}
	return true, f.Close()
}

func writeCompletion(shell string, w io.Writer) error {
	var err error
	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletionV2(w, true)
	case "zsh":
		err = rootCmd.GenZshCompletion(w)
	case "fish":
		err = rootCmd.GenFishCompletion(w, true)
	case "powershell":
		err = rootCmd.GenPowerShellCompletionWithDesc(w)
	default:
		return fmt.Errorf("unsupported shell %q", shell)
	}
	if err != nil {
		return fmt.Errorf("failed to generate %s completion: %w", shell, err)
	}
	return nil
}

func detectShell(path string) string {
	switch name := filepath.Base(path); {
	case strings.Contains(name, "zsh"):
		return "zsh"
	case strings.Contains(name, "bash"):
		return "bash"
	case strings.Contains(name, "fish"):
		return "fish"
	}
	return ""
}

// registerCompletions attaches file completion to arguments and flags that
// take paths. It runs after every command has defined its flags.
func registerCompletions() {
	documents := func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return []string{"html", "htm"}, cobra.ShellCompDirectiveFilterFileExt
	}
	yamlFiles := func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
	}
	dirs := func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveFilterDirs
	}

	minifyCmd.ValidArgsFunction = documents
	initCmd.ValidArgsFunction = dirs
	_ = rootCmd.RegisterFlagCompletionFunc("config", yamlFiles)
	_ = minifyCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"html", "htm"}, cobra.ShellCompDirectiveFilterFileExt
	})
	_ = initCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveFilterDirs
	})
	_ = minifyCmd.RegisterFlagCompletionFunc("alphabet", cobra.NoFileCompletions)
	_ = minifyCmd.RegisterFlagCompletionFunc("whitelist", cobra.NoFileCompletions)
}

func init() {
	completionCmd.AddCommand(completionInstallCmd)
	rootCmd.AddCommand(completionCmd)
}
