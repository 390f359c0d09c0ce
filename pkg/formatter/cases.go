package formatter

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/helmcode/casediag/pkg/model"
)

// DisplayCases writes a case listing
func DisplayCases(w io.Writer, cases []model.Case, format string) error {
	if done, err := encode(w, cases, format); done {
		return err
	}

	if len(cases) == 0 {
		fmt.Fprintln(w, color.HiBlackString("No cases found."))
		return nil
	}

	bold := color.New(color.Bold)
	bold.Fprintf(w, "%-6s  %-10s  %-14s  %s\n", "ID", "PLATFORM", "USER", "DESCRIPTION")
	for _, c := range cases {
		fmt.Fprintf(w, "%-6d  %-10s  %-14s  %s\n", c.ID, c.Platform, c.Username, truncate(c.Description, 50))
	}
	return nil
}

// DisplayComments writes the comment thread of a case, oldest first
func DisplayComments(w io.Writer, comments []model.Comment, format string) error {
	if done, err := encode(w, comments, format); done {
		return err
	}

	if len(comments) == 0 {
		fmt.Fprintln(w, color.HiBlackString("No comments yet."))
		return nil
	}

	for _, c := range comments {
		author := color.New(color.FgCyan, color.Bold).Sprint(c.User)
		if c.IsAdmin {
			author += " " + color.New(color.FgMagenta).Sprint("[admin]")
		}
		fmt.Fprintf(w, "%s  %s\n", author, color.HiBlackString(c.Timestamp))
		fmt.Fprintln(w, wrapText(c.Comment, 80, "   "))
		fmt.Fprintln(w)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
