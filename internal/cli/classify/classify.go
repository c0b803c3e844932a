// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package classify

import (
	"context"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/resourcetag/internal/classifier"
	"github.com/platform-engineering-labs/resourcetag/internal/cli/cmd"
	"github.com/platform-engineering-labs/resourcetag/internal/cli/display"
)

type ClassifyOptions struct {
	JSON          bool
	Specification cmd.SpecificationOptions
}

func ClassifyCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "classify",
		Short: "List the resource types that accept tags",
		RunE: func(command *cobra.Command, args []string) error {
			opts := &ClassifyOptions{}
			opts.JSON, _ = command.Flags().GetBool("json")
			opts.Specification = cmd.SpecificationOptionsFromCmd(command)

			if err := cmd.ValidateSpecificationOptions(opts.Specification); err != nil {
				return err
			}

			return runClassify(command.Context(), opts, command.OutOrStdout())
		},
		Annotations: map[string]string{
			"examples": "{{.Name}} {{.Command}} --spec-file ./CloudFormationResourceSpecification.json",
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)

	command.Flags().Bool("json", false, "Print the types as a JSON array")
	cmd.AddSpecificationFlags(command)

	return command
}

func runClassify(ctx context.Context, opts *ClassifyOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	types := classifier.New(opts.Specification.Provider()).Classify(ctx).Sorted()

	if opts.JSON {
		if types == nil {
			types = []string{}
		}
		raw, err := json.Marshal(types)
		if err != nil {
			return fmt.Errorf("failed to marshal resource types: %w", err)
		}
		_, err = fmt.Fprintln(out, string(raw))
		return err
	}

	if len(types) == 0 {
		display.Warning(out, "no taggable resource types found")
		return nil
	}

	for _, t := range types {
		fmt.Fprintln(out, t)
	}
	fmt.Fprintln(out, display.Greyf("%d taggable resource type(s)", len(types)))

	return nil
}
