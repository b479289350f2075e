package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

func renderCmd(a *app) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "render <doc.yaml>",
		Short: "Render a tree document to HTML",
		Long: `Mount a tree document into an empty container and print its HTML.

Use "-" to read the document from stdin, or s3://bucket/key to fetch it
from an object store configured under s3 in graft.yaml.

Examples:
  graft render page.yaml
  graft render --pretty page.yaml
  graft render s3://site-docs/pages/home.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.documents(cmd).Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			s := newStage()
			defer s.close(cmd.Context())
			if err := s.render(cmd.Context(), data); err != nil {
				return err
			}

			html := s.html(pretty || a.cfg.Render.Pretty)
			if !strings.HasSuffix(html, "\n") {
				html += "\n"
			}
			fmt.Fprint(cmd.OutOrStdout(), html)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the HTML (default from render.pretty)")

	return cmd
}

func diffCmd(a *app) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "diff <old.yaml> <new.yaml>",
		Short: "Show the mutations that turn one document into another",
		Long: `Mount the old document, patch it to the new one, and print the host
mutations the patch performed followed by a line diff of the HTML.

Examples:
  graft diff before.yaml after.yaml
  graft diff --quiet before.yaml after.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			src := a.documents(cmd)
			oldData, err := src.Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			newData, err := src.Read(cmd.Context(), args[1])
			if err != nil {
				return err
			}

			s := newStage()
			defer s.close(cmd.Context())
			if err := s.render(cmd.Context(), oldData); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			before := s.html(true)
			s.log.Take()

			if err := s.render(cmd.Context(), newData); err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}
			mutations := s.log.Take()
			after := s.html(true)

			if len(mutations) == 0 {
				success(out, "No changes")
				return nil
			}
			success(out, "%d mutations", len(mutations))
			for _, m := range mutations {
				info(out, "%s", m)
			}
			if quiet {
				return nil
			}
			fmt.Fprintln(out)
			writeLineDiff(out, before, after)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print only the mutations")

	return cmd
}

// writeLineDiff prints a unified-style line diff of two texts.
func writeLineDiff(w io.Writer, before, after string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				fmt.Fprintln(w, green("+ "+line))
			case diffmatchpatch.DiffDelete:
				fmt.Fprintln(w, red("- "+line))
			default:
				fmt.Fprintln(w, faint("  "+line))
			}
		}
	}
}
