// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/platform-engineering-labs/resourcetag"
	"github.com/platform-engineering-labs/resourcetag/internal/cli/classify"
	"github.com/platform-engineering-labs/resourcetag/internal/cli/cmd"
	"github.com/platform-engineering-labs/resourcetag/internal/cli/display"
	"github.com/platform-engineering-labs/resourcetag/internal/cli/tag"
	"github.com/platform-engineering-labs/resourcetag/internal/logging"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     display.Tool,
		Short:   display.Tool + " CLI",
		Long:    display.Tool + ": " + display.Green("Tag CloudFormation resources of a build and group them by project"),
		Version: resourcetag.Version,
		PersistentPreRunE: func(command *cobra.Command, args []string) error {
			levelName, _ := command.Flags().GetString("log-level")
			level, err := logging.ParseLevel(levelName)
			if err != nil {
				return cmd.FlagErrorf("%s", err)
			}

			logFile, _ := command.Flags().GetString("log-file")
			logging.Setup(logging.Config{
				ConsoleLogLevel: level,
				FilePath:        logFile,
				FileLogLevel:    level,
			})

			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	longestFlagName := 0
	cobra.AddTemplateFunc("formatExamples", func(examples string, cmd *cobra.Command) string {
		cliName := cmd.Root().Name()
		cmdName := cmd.Name()
		replaced := strings.ReplaceAll(examples, "{{.Name}}", cliName)
		return strings.ReplaceAll(replaced, "{{.Command}}", cmdName)
	})

	cobra.AddTemplateFunc("optionsUsage", func(f *pflag.FlagSet) []string {
		var usage []string

		f.VisitAll(func(flag *pflag.Flag) {
			length := len(flag.Name)
			if flag.Shorthand != "" {
				length += 6
			}

			if length > longestFlagName {
				longestFlagName = length
			}
		})

		padding := longestFlagName + 10

		f.VisitAll(func(flag *pflag.Flag) {
			s := fmt.Sprintf("      --%s ", flag.Name)
			if flag.Shorthand != "" {
				s = fmt.Sprintf("  -%s, --%s ", flag.Shorthand, flag.Name)
			}

			s = fmt.Sprintf("%-*s%s", padding, s, flag.Usage)
			if flag.DefValue != "" &&
				flag.DefValue != "[]" &&
				flag.DefValue != "false" &&
				flag.Name != "help" &&
				flag.Name != "version" {
				s += display.Grey(fmt.Sprintf(" [default: %q]", flag.DefValue))
			}

			usage = append(usage, s)
		})
		return usage
	})

	rootCmd.SetUsageTemplate(cmd.RootCmdUsageTemplate)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(tag.TagCmd())
	rootCmd.AddCommand(classify.ClassifyCmd())

	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this file, rotated and compressed")

	rootCmd.PersistentFlags().BoolP("help", "h", false, "Show help for "+rootCmd.Use)
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show "+rootCmd.Use+" version information")
	rootCmd.SetVersionTemplate(fmt.Sprintf("%s version: %s\ngo version: %s\n", display.Tool, resourcetag.Version, runtime.Version()))

	return rootCmd
}

// Execute runs the root command with args and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)

	executed, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}

	display.Error(rootCmd.ErrOrStderr(), err.Error())
	if cmd.IsFlagError(err) && executed != nil {
		_ = executed.Usage()
	}

	return 1
}

func Start() {
	os.Exit(Execute(context.Background(), os.Args[1:]))
}
