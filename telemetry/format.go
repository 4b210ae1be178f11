package telemetry

import (
	"fmt"
	"io"
	"time"
)

// formatTimingTree outputs the timing tree in a hierarchical format.
// Example output:
//
//	Total: 125ms
//	├─ loader.load main.ledger: 85ms
//	│  ├─ pipeline.interpret (123 groups, 8.2/ms): 15ms
//	│  └─ pipeline.balance (40 transactions, 1.0/ms, 1ms avg): 40ms
//	└─ pipeline.normalize: 40ms
func formatTimingTree(w io.Writer, root *timerNode) {
	// Calculate duration
	duration := root.end.Sub(root.start)

	// Format root node
	_, _ = fmt.Fprintf(w, "%s: %s\n", displayName(root, duration), formatDuration(duration))

	// Format children recursively
	for i, child := range root.children {
		isLast := i == len(root.children)-1
		formatNode(w, child, "", isLast)
	}
}

// formatNode recursively formats a node and its children.
func formatNode(w io.Writer, node *timerNode, prefix string, isLast bool) {
	// Calculate duration
	duration := node.end.Sub(node.start)

	// Choose tree characters
	var branch, extension string
	if isLast {
		branch = "└─ "
		extension = "   "
	} else {
		branch = "├─ "
		extension = "│  "
	}

	// Format this node
	_, _ = fmt.Fprintf(w, "%s%s%s: %s\n", prefix, branch, displayName(node, duration), formatDuration(duration))

	// Format children
	childPrefix := prefix + extension
	for i, child := range node.children {
		childIsLast := i == len(node.children)-1
		formatNode(w, child, childPrefix, childIsLast)
	}
}

// displayName renders node's name, appending a throughput suffix when the
// timer carries structured config (node.config, set by
// Collector.StartStructured) rather than re-deriving the item count by
// parsing it back out of a rendered name string. A "transactions" unit
// additionally gets a per-item average, matching pipeline.go's
// pipeline.balance timer; every other unit just gets a per-ms rate.
func displayName(node *timerNode, duration time.Duration) string {
	if node.config == nil || node.config.Count <= 0 {
		return node.name
	}
	durationMs := float64(duration.Nanoseconds()) / 1e6
	if durationMs <= 0 {
		return fmt.Sprintf("%s (%d %s)", node.name, node.config.Count, node.config.Unit)
	}
	perMs := float64(node.config.Count) / durationMs
	if node.config.Unit == "transactions" {
		avg := duration / time.Duration(node.config.Count)
		return fmt.Sprintf("%s (%d %s, %.1f/ms, %v avg)",
			node.name, node.config.Count, node.config.Unit, perMs, avg.Round(time.Microsecond))
	}
	return fmt.Sprintf("%s (%d %s, %.1f/ms)", node.name, node.config.Count, node.config.Unit, perMs)
}

// formatDuration formats a duration for display.
// Shows microseconds for < 1ms, milliseconds for < 1s, seconds for >= 1s.
// Prefixes with ~ when rounding loses significant precision.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		// Show microseconds for very fast operations (< 1ms)
		us := float64(d) / float64(time.Microsecond)
		return fmt.Sprintf("%.0fµs", us)
	}
	if d < time.Second {
		ms := float64(d) / float64(time.Millisecond)
		// Check if rounding to integer ms loses significant precision
		truncatedMs := int(ms)
		truncated := time.Duration(truncatedMs) * time.Millisecond
		// Add ~ if the fractional part is >= 50µs
		if d > truncated && d-truncated >= 50*time.Microsecond {
			return fmt.Sprintf("~%.0fms", ms)
		}
		return fmt.Sprintf("%.0fms", ms)
	}
	s := float64(d) / float64(time.Second)
	return fmt.Sprintf("%.2fs", s)
}
