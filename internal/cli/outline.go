package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/milk9111/bulletml/pattern"
	"github.com/spf13/cobra"
)

// NewOutlineCommand creates the outline command, which prints a pattern's
// node tree.
func NewOutlineCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "outline <pattern>",
		Short: "Print the node tree of a pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadPattern(args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "load pattern", err)
			}
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if formatter.JSON() {
				return formatter.Success(outlineOf(tree.Root()), "")
			}
			writeOutline(cmd.OutOrStdout(), tree.Root(), 0)
			return nil
		},
	}
}

// OutlineNode is the JSON form of one node.
type OutlineNode struct {
	Name     string        `json:"name"`
	Label    string        `json:"label,omitempty"`
	Type     string        `json:"type,omitempty"`
	Expr     string        `json:"expr,omitempty"`
	Ref      string        `json:"ref,omitempty"`
	Children []OutlineNode `json:"children,omitempty"`
}

func outlineOf(n *pattern.Node) OutlineNode {
	out := OutlineNode{Name: string(n.Name()), Label: n.Label()}
	if n.Type() != pattern.TypeNone {
		out.Type = n.Type().String()
	}
	if n.Expr() != nil {
		out.Expr = n.Expr().String()
	}
	if n.Ref() != nil {
		out.Ref = n.Ref().String()
	}
	for _, c := range n.Children() {
		out.Children = append(out.Children, outlineOf(c))
	}
	return out
}

func writeOutline(w io.Writer, n *pattern.Node, depth int) {
	line := indent(depth) + n.String()
	if n.Type() != pattern.TypeNone {
		line += " type=" + n.Type().String()
	}
	if n.Expr() != nil {
		line += " = " + n.Expr().String()
	}
	if n.Ref() != nil {
		line += " -> " + n.Ref().String()
	}
	fmt.Fprintln(w, line)
	for _, c := range n.Children() {
		writeOutline(w, c, depth+1)
	}
}

func countLabels(n *pattern.Node) int {
	count := 0
	if n.Label() != "" && !n.Name().IsRef() {
		count++
	}
	for _, c := range n.Children() {
		count += countLabels(c)
	}
	return count
}

func indent(depth int) string { return strings.Repeat("  ", depth) }
