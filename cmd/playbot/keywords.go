package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/playbot-dev/playbot/browser"
)

func newKeywordsCmd(a *app) *cobra.Command {
	var withDoc, noColor bool

	cmd := &cobra.Command{
		Use:   "keywords [keyword...]",
		Short: "List the keywords and their arguments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listKeywords(cmd.Context(), args, withDoc || len(args) > 0, noColor)
		},
	}
	cmd.Flags().BoolVarP(&withDoc, "doc", "d", false, "print the documentation of each keyword")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}

func (a *app) listKeywords(ctx context.Context, names []string, withDoc, noColor bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	kw := browser.NewKeywords(browser.NewLibrary(ctx, "", nil, a.logger))
	if len(names) == 0 {
		names = kw.Names()
	}

	var (
		name = color.New(color.FgCyan, color.Bold)
		arg  = color.New(color.FgYellow)
	)
	if noColor {
		name.DisableColor()
		arg.DisableColor()
	}

	for _, n := range names {
		args, err := kw.Arguments(n)
		if err != nil {
			return err //nolint:wrapcheck
		}
		fmt.Fprintf(a.out, "%s  %s\n", name.Sprint(keywordTitle(n)), arg.Sprint(strings.Join(args, "  ")))
		if !withDoc {
			continue
		}
		doc, err := kw.Documentation(n)
		if err != nil {
			return err //nolint:wrapcheck
		}
		for _, line := range strings.Split(doc, "\n") {
			fmt.Fprintf(a.out, "    %s\n", line)
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

// keywordTitle turns a keyword name into the title case form suites use:
// "wait_for_selector" becomes "Wait For Selector".
func keywordTitle(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
