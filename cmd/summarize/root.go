package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"url-summarizer/internal/domain/entity"
)

type pipeline interface {
	Summarize(ctx context.Context, req entity.SummaryRequest) (entity.SummaryResult, error)
}

type pipelineFactory func(ctx context.Context, envFile string) (pipeline, func(), error)

// summaryOutput is the yaml rendering of a result.
type summaryOutput struct {
	URL       string `yaml:"url"`
	Summary   string `yaml:"summary"`
	CreatedAt string `yaml:"createdAt"`
}

func newRootCmd(factory pipelineFactory) *cobra.Command {
	var (
		maxLength int
		output    string
		envFile   string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:          "url-summarize <url>",
		Short:        "Webページを取得して日本語で要約します",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		Example: `  url-summarize https://example.com/article
  url-summarize --max-length 300 https://example.com/article
  url-summarize --output json https://example.com/article`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case "text", "json", "yaml":
			default:
				return fmt.Errorf("invalid output format %q (must be text, json or yaml)", output)
			}

			req := entity.SummaryRequest{URL: args[0], MaxLength: maxLength}
			if err := entity.ValidateURL(req.URL); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			p, cleanup, err := factory(ctx, envFile)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := p.Summarize(ctx, req)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), output, result)
		},
	}

	cmd.Flags().IntVar(&maxLength, "max-length", 0, "approximate summary length in characters (default 1000)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "overall deadline for fetch and summarize")
	return cmd
}

func writeResult(w io.Writer, format string, result entity.SummaryResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(result)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(summaryOutput{
			URL:       result.URL,
			Summary:   result.Summary,
			CreatedAt: result.CreatedAt.UTC().Format(entity.CreatedAtLayout),
		})
	default:
		_, err := fmt.Fprintln(w, result.Summary)
		return err
	}
}
