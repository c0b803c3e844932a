// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package tag

import (
	"context"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/wI2L/jsondiff"

	"github.com/platform-engineering-labs/resourcetag/internal/classifier"
	"github.com/platform-engineering-labs/resourcetag/internal/cli/cmd"
	"github.com/platform-engineering-labs/resourcetag/internal/cli/display"
	"github.com/platform-engineering-labs/resourcetag/internal/config"
	"github.com/platform-engineering-labs/resourcetag/internal/tagger"
	"github.com/platform-engineering-labs/resourcetag/internal/template"
	"github.com/platform-engineering-labs/resourcetag/internal/util"
	"github.com/platform-engineering-labs/resourcetag/pkg/tags"
)

type TagOptions struct {
	TemplatePath  string
	OutputPath    string
	ConfigPath    string
	ServiceName   string
	ExtraTags     []string
	DryRun        bool
	Specification cmd.SpecificationOptions
}

func TagCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "tag",
		Short: "Tag the resources of a compiled template and add the project resource group",
		RunE: func(command *cobra.Command, args []string) error {
			opts := &TagOptions{}
			opts.TemplatePath = command.Flags().Arg(0)
			opts.OutputPath, _ = command.Flags().GetString("output")
			opts.ConfigPath, _ = command.Flags().GetString("config")
			opts.ServiceName, _ = command.Flags().GetString("service")
			opts.ExtraTags, _ = command.Flags().GetStringArray("tag")
			opts.DryRun, _ = command.Flags().GetBool("dry-run")
			opts.Specification = cmd.SpecificationOptionsFromCmd(command)

			if err := validateTagOptions(opts); err != nil {
				return err
			}

			return runTag(command.Context(), opts, command.OutOrStdout())
		},
		Annotations: map[string]string{
			"examples": "{{.Name}} {{.Command}} .serverless/cloudformation-template-update-stack.json",
			"args":     "<template file>",
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)

	command.Flags().String("output", "", "Write the tagged template here instead of overwriting the input")
	command.Flags().String("config", config.DefaultConfigFile, "Build configuration holding the service name and provider tags, empty to skip")
	command.Flags().String("service", "", "Service name, overrides the build configuration")
	command.Flags().StringArray("tag", nil, "Additional tag as key=value, may be repeated")
	command.Flags().Bool("dry-run", false, "Print the changes as a JSON patch instead of writing the template")
	cmd.AddSpecificationFlags(command)

	return command
}

func validateTagOptions(opts *TagOptions) error {
	if opts.TemplatePath == "" {
		return cmd.FlagErrorf("template file is required")
	}

	if opts.DryRun && opts.OutputPath != "" {
		return cmd.FlagErrorf("--output cannot be combined with --dry-run")
	}

	if _, err := parseExtraTags(opts.ExtraTags); err != nil {
		return err
	}

	return cmd.ValidateSpecificationOptions(opts.Specification)
}

func parseExtraTags(values []string) ([]tags.Tag, error) {
	var result []tags.Tag
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return nil, cmd.FlagErrorf("invalid tag %q, expected key=value", v)
		}
		result = append(result, tags.Tag{Key: key, Value: value})
	}
	return result, nil
}

func project(opts *TagOptions) (tagger.Project, error) {
	var cfg *config.BuildConfig
	if opts.ConfigPath != "" {
		loaded, err := config.Load(util.ExpandHomePath(opts.ConfigPath))
		if err != nil {
			return tagger.Project{}, err
		}
		cfg = loaded
	}

	extra, err := parseExtraTags(opts.ExtraTags)
	if err != nil {
		return tagger.Project{}, err
	}

	p := tagger.Project{
		ServiceName: cfg.ServiceName(),
		Tags:        append(cfg.UserTags(), extra...),
	}
	if opts.ServiceName != "" {
		p.ServiceName = opts.ServiceName
	}

	return p, nil
}

func runTag(ctx context.Context, opts *TagOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	p, err := project(opts)
	if err != nil {
		return err
	}

	tpl, err := template.Load(util.ExpandHomePath(opts.TemplatePath))
	if err != nil {
		return err
	}
	original := append([]byte(nil), tpl.Bytes()...)

	types := classifier.New(opts.Specification.Provider()).Classify(ctx)

	result := tagger.New(types).Tag(tpl, p)
	if result.NoTemplate {
		return nil
	}

	for _, id := range result.Malformed {
		display.Warning(out, fmt.Sprintf("resource '%s' has malformed tags and was left untouched", id))
	}

	if opts.DryRun {
		return printPatch(out, original, tpl.Bytes())
	}

	target := util.OutputPath(opts.TemplatePath, opts.OutputPath)
	if err := tpl.Write(target); err != nil {
		return err
	}

	display.Success(out, fmt.Sprintf("Tagged %d resource(s) of service '%s' in '%s'", result.Tagged, p.ServiceName, target))

	return nil
}

func printPatch(out io.Writer, before, after []byte) error {
	patch, err := jsondiff.CompareJSON(before, after)
	if err != nil {
		return fmt.Errorf("failed to compute template changes: %w", err)
	}

	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to marshal template changes: %w", err)
	}

	_, err = out.Write(pretty.Pretty(raw))
	return err
}
