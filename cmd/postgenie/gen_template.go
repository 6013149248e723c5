package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/postgenie/internal/template"
	"github.com/spf13/cobra"
)

var genTemplateOutput string

var genTemplateCmd = &cobra.Command{
	Use:   "gen-template",
	Short: "Write the default post text template",
	Long: `Write the default post text template for customization.

Pass the edited file to 'postgenie run --template'. Supported variables:
{{label}}, {{platform}}, {{summary}}, {{source}}, {{brand}}, {{cta}}, {{time}}.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if genTemplateOutput == "" || genTemplateOutput == "-" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), template.DefaultPostTemplate)
			return err
		}
		if fileExists(genTemplateOutput) {
			return fmt.Errorf("%s already exists", genTemplateOutput)
		}
		if err := os.WriteFile(genTemplateOutput, []byte(template.DefaultPostTemplate), 0o644); err != nil {
			return fmt.Errorf("failed to write template: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Template written to: %s\n", genTemplateOutput)
		return nil
	},
}

func init() {
	genTemplateCmd.Flags().StringVarP(&genTemplateOutput, "output", "o", "postgenie-template.md", "Output file, - for stdout")
}
