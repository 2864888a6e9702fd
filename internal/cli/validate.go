package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidateResult is the JSON payload of a successful validate.
type ValidateResult struct {
	Pattern     string `json:"pattern"`
	Orientation string `json:"orientation"`
	TopActions  int    `json:"top_actions"`
	Labels      int    `json:"labels"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <pattern>",
		Short: "Compile a pattern and check its references",
		Long: `Validate parses a pattern file (or an embedded pattern by name),
compiles its expressions and resolves every actionRef, bulletRef and fireRef.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts, args[0])
		},
	}
}

func runValidate(cmd *cobra.Command, rootOpts *RootOptions, name string) error {
	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	tree, err := loadPattern(name)
	if err != nil {
		problems := errorList(err)
		if formatter.JSON() {
			_ = formatter.Error(errorCode(err), fmt.Sprintf("pattern %s is invalid", name), problems)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✗ %s\n", name)
			for _, p := range problems {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
			}
		}
		return WrapExitError(ExitFailure, "validation failed", err)
	}

	result := ValidateResult{
		Pattern:     name,
		Orientation: tree.Orientation().String(),
		TopActions:  len(tree.TopActions()),
		Labels:      countLabels(tree.Root()),
	}
	text := fmt.Sprintf("✓ %s (%s, %d top %s)", name, result.Orientation, result.TopActions, plural(result.TopActions, "action"))
	return formatter.Success(result, text)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
