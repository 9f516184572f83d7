package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/docharvest"
	"github.com/fwojciec/docharvest/extract"
)

// progressPrinter prints a line per progress event. Failures go to stderr.
func progressPrinter(stdout, stderr io.Writer) docharvest.ProgressFunc {
	return func(e docharvest.ProgressEvent) {
		w := stdout
		if e.Type == docharvest.ProgressFailed {
			w = stderr
		}
		fmt.Fprintln(w, extract.FormatProgress(e))
	}
}

// printReport prints the run summary.
func printReport(w io.Writer, r *docharvest.Report) {
	s := r.Stats
	fmt.Fprintf(w, "Run %s\n", r.RunID)
	fmt.Fprintf(w, "  requested %d, already extracted %d, missing %d\n", s.Requested, s.AlreadyExtracted, s.Missing)
	fmt.Fprintf(w, "  succeeded %d, failed %d, skipped %d (success rate %.1f%%)\n", s.Succeeded, s.Failed, s.Skipped, r.SuccessRate)
	if s.Unchanged > 0 {
		fmt.Fprintf(w, "  %d refetched pages were unchanged\n", s.Unchanged)
	}
	if s.Interrupted {
		fmt.Fprintln(w, "  interrupted before all targets were dispatched")
	}
	printCompleteness(w, r)
}

// printCompleteness prints final completeness per category and the first
// missing URLs.
func printCompleteness(w io.Writer, r *docharvest.Report) {
	fmt.Fprintf(w, "  extracted %d, missing %d (%.1f%% complete, %s)\n",
		r.FinalExtracted, r.FinalMissing, r.CompletionRate, extract.FormatBytes(r.TotalBytes))
	for _, c := range r.Categories {
		fmt.Fprintf(w, "    %-20s %d/%d\n", c.Category, c.FinalExtracted, c.Requested)
	}
	if len(r.MissingURLs) > 0 {
		fmt.Fprintln(w, "  missing:")
		for _, t := range r.MissingURLs {
			fmt.Fprintf(w, "    %s (%s)\n", t.URL, t.Category)
		}
	}
}
