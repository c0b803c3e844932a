// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/resourcetag/internal/classifier"
	"github.com/platform-engineering-labs/resourcetag/internal/cli/display"
)

var RootCmdUsageTemplate = display.Grey("Usage: ") + display.Green("{{.CommandPath}} [OPTIONS]{{if .HasAvailableSubCommands}} [COMMAND]{{end}}\n") +
	"{{if .HasAvailableSubCommands}}\n" + display.Gold("Commands:") +
	"{{range $cmd := .Commands}}{{if $cmd.IsAvailableCommand}}\n  " + display.Green("{{rpad $cmd.Name $cmd.NamePadding}}") + "     {{$cmd.Short}}" +
	"{{if (index $cmd.Annotations \"examples\")}}\n                 " +
	display.Grey("  {{formatExamples (index $cmd.Annotations \"examples\") $cmd}}") + "{{end}}" +
	"{{end}}{{end}}\n{{end}}" +
	"{{if .HasAvailableLocalFlags}}\n" + display.Gold("Options:\n") +
	"{{range .LocalFlags | optionsUsage}}{{.}}\n{{end}}" +
	"{{end}}"

var SimpleCmdUsageTemplate = display.Grey("Usage: ") + display.Green("{{.CommandPath}}{{if .HasAvailableLocalFlags}} [OPTIONS]{{end}}") +
	display.Green("{{if index .Annotations \"args\"}} {{index .Annotations \"args\"}}{{end}}") + "\n" +
	"{{if .HasAvailableLocalFlags}}\n" + display.Gold("Options:\n") +
	"{{range .LocalFlags | optionsUsage}}{{.}}\n{{end}}" +
	"{{end}}" +
	"{{if .HasAvailableInheritedFlags}}\n" + display.Gold("Global options:\n") +
	"{{range .InheritedFlags | optionsUsage}}{{.}}\n{{end}}" +
	"{{end}}"

type SpecificationOptions struct {
	URL     string
	File    string
	Timeout time.Duration
}

func AddSpecificationFlags(command *cobra.Command) {
	command.Flags().String("spec-url", classifier.DefaultSpecificationURL, "URL of the CloudFormation resource specification")
	command.Flags().String("spec-file", "", "Read the resource specification from a local file instead of --spec-url")
	command.Flags().Duration("spec-timeout", classifier.DefaultFetchTimeout, "Timeout for fetching the resource specification")
	command.MarkFlagsMutuallyExclusive("spec-url", "spec-file")
}

func SpecificationOptionsFromCmd(command *cobra.Command) SpecificationOptions {
	var opts SpecificationOptions
	opts.URL, _ = command.Flags().GetString("spec-url")
	opts.File, _ = command.Flags().GetString("spec-file")
	opts.Timeout, _ = command.Flags().GetDuration("spec-timeout")
	return opts
}

func ValidateSpecificationOptions(opts SpecificationOptions) error {
	if opts.File == "" && opts.URL == "" {
		return FlagErrorf("either --spec-url or --spec-file is required")
	}
	if opts.Timeout < 0 {
		return FlagErrorf("--spec-timeout must not be negative")
	}
	return nil
}

func (o SpecificationOptions) Provider() classifier.SpecificationProvider {
	if o.File != "" {
		return classifier.FileProvider{Path: o.File}
	}
	return classifier.NewHTTPProvider(o.URL, o.Timeout)
}
