package display

import (
	"fmt"
	"io"

	"github.com/moguls753/suds-study/internal/runner"
)

// Verification prints one ✓/✗ line per reference check and returns the
// number of failures
func Verification(w io.Writer, checks []runner.Check) int {
	failed := 0
	group := ""
	for _, c := range checks {
		if c.Group != group {
			if group != "" {
				fmt.Fprintln(w)
			}
			group = c.Group
			fmt.Fprintf(w, "--- %s ---\n", group)
		}

		mark := "✓"
		if !c.Passed() {
			mark = "✗"
			failed++
		}
		if c.Err != nil {
			fmt.Fprintf(w, "%s %s: no result (%v)\n", mark, c.Name, c.Err)
			continue
		}
		fmt.Fprintf(w, "%s %s: %.4f (expected %.4f)\n", mark, c.Name, c.Got, c.Want)
	}
	return failed
}
