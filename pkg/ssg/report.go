package ssg

import (
	"fmt"
	"io"
)

// WriteReport prints the generated paths and the per-route tree.
func (r *Result) WriteReport(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%d static paths\n", len(r.Paths)); err != nil {
		return err
	}
	for _, p := range r.Paths {
		if _, err := fmt.Fprintf(w, "  %s\n", p); err != nil {
			return err
		}
	}

	if len(r.Tree) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "dynamic routes"); err != nil {
		return err
	}
	for _, t := range r.Tree {
		if _, err := fmt.Fprintf(w, "  %s (%s) → %d paths\n", t.Route, t.File, len(t.Paths)); err != nil {
			return err
		}
		for _, p := range t.Paths {
			if _, err := fmt.Fprintf(w, "    %s\n", p); err != nil {
				return err
			}
		}
	}
	return nil
}
