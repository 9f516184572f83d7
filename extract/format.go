package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/docharvest"
)

// progressURLWidth is the widest URL shown on a progress line.
const progressURLWidth = 60

// FormatProgress renders a progress event as a single line for terminal
// output, without a trailing newline.
//
//	[12/340] .../workflows/intro (4.2 KB)
//	[13/340] skip .../api/ (exists)
//	[14/340] fail .../hosting/: HTTP 404 for https://docs.n8n.io/hosting/
func FormatProgress(e docharvest.ProgressEvent) string {
	count := fmt.Sprintf("[%d/%d]", e.Completed, e.Total)
	switch e.Type {
	case docharvest.ProgressStarted:
		return fmt.Sprintf("Extracting %d URLs", e.Total)
	case docharvest.ProgressExtracted:
		var b strings.Builder
		fmt.Fprintf(&b, "%s %s (%s", count, truncateURL(e.URL, progressURLWidth), FormatBytes(int64(e.Bytes)))
		if e.Unchanged {
			b.WriteString(", unchanged")
		}
		if e.Attempts > 1 {
			fmt.Fprintf(&b, ", %d attempts", e.Attempts)
		}
		b.WriteString(")")
		return b.String()
	case docharvest.ProgressSkipped:
		return fmt.Sprintf("%s skip %s (exists)", count, truncateURL(e.URL, progressURLWidth))
	case docharvest.ProgressFailed:
		return fmt.Sprintf("%s fail %s: %v", count, e.URL, e.Error)
	case docharvest.ProgressFinished:
		return fmt.Sprintf("Processed %d/%d in %s", e.Completed, e.Total, e.Duration.Round(time.Millisecond))
	}
	return ""
}

// truncateURL keeps the tail of url, which names the page.
func truncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats a byte count with a binary unit.
func FormatBytes(n int64) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case n >= MB:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(MB))
	case n >= KB:
		return fmt.Sprintf("%.1f KB", float64(n)/float64(KB))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
