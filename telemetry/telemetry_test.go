package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestNoOpCollector(t *testing.T) {
	collector := noOpCollector{}

	timer := collector.Start("test")
	timer.End()

	child := timer.Child("child")
	child.End()

	var buf bytes.Buffer
	collector.Report(&buf)

	assert.Equal(t, 0, buf.Len(), "NoOp collector should produce no output")
}

func TestFromContextReturnsNoOpWhenMissing(t *testing.T) {
	ctx := context.Background()
	collector := FromContext(ctx)

	assert.True(t, collector != nil, "FromContext should never return nil")
	assert.True(t, func() bool { _, ok := collector.(noOpCollector); return ok }(), "FromContext should return noOpCollector when none present")
}

func TestWithCollector(t *testing.T) {
	ctx := context.Background()
	collector := NewTimingCollector()

	ctx = WithCollector(ctx, collector)

	retrieved := FromContext(ctx)
	retrievedTiming, ok := retrieved.(*TimingCollector)
	assert.True(t, ok && retrievedTiming == collector, "FromContext should return the same collector that was added")
}

func TestTimingCollectorBasic(t *testing.T) {
	collector := NewTimingCollector()

	timer := collector.Start("pipeline.run")
	time.Sleep(10 * time.Millisecond)
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf)

	output := buf.String()
	assert.True(t, strings.Contains(output, "pipeline.run"), "Output should contain timer name")
	assert.True(t, strings.Contains(output, "ms"), "Output should contain duration")
}

func TestTimingCollectorHierarchical(t *testing.T) {
	collector := NewTimingCollector()

	root := collector.Start("pipeline.run")
	time.Sleep(5 * time.Millisecond)

	load := root.Child("loader.load")
	time.Sleep(5 * time.Millisecond)
	load.End()

	normalize := root.Child("pipeline.normalize")
	time.Sleep(5 * time.Millisecond)
	normalize.End()

	root.End()

	var buf bytes.Buffer
	collector.Report(&buf)
	output := buf.String()

	assert.True(t, strings.Contains(output, "pipeline.run"), "Output should contain 'pipeline.run'")
	assert.True(t, strings.Contains(output, "loader.load"), "Output should contain 'loader.load'")
	assert.True(t, strings.Contains(output, "pipeline.normalize"), "Output should contain 'pipeline.normalize'")
	assert.True(t, strings.Contains(output, "├─") || strings.Contains(output, "└─"), "Output should contain tree structure")
}

func TestTimingCollectorDeepNesting(t *testing.T) {
	collector := NewTimingCollector()

	t1 := collector.Start("pipeline.run")
	t2 := t1.Child("loader.load")
	t3 := t2.Child("loader.parse")
	time.Sleep(5 * time.Millisecond)
	t3.End()
	t2.End()
	t1.End()

	var buf bytes.Buffer
	collector.Report(&buf)
	output := buf.String()

	assert.True(t, strings.Contains(output, "pipeline.run") && strings.Contains(output, "loader.load") && strings.Contains(output, "loader.parse"), "Output should contain all levels")

	lines := strings.Split(output, "\n")
	foundParse := false
	for _, line := range lines {
		if strings.Contains(line, "loader.parse") {
			foundParse = true
			assert.True(t, strings.Contains(line, "   ") || strings.Contains(line, "│  "), "loader.parse should be indented")
		}
	}
	assert.True(t, foundParse, "Should find loader.parse in output")
}

func TestTimingCollectorStructuredTimerReportsThroughput(t *testing.T) {
	collector := NewTimingCollector()

	timer := collector.StartStructured(GroupTimerConfig(40))
	time.Sleep(5 * time.Millisecond)
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf)
	output := buf.String()

	assert.True(t, strings.Contains(output, "pipeline.interpret"), "Output should contain the stage name")
	assert.True(t, strings.Contains(output, "40 groups"), "Output should contain the item count and unit")
	assert.True(t, strings.Contains(output, "/ms"), "Output should contain a throughput figure")
	assert.False(t, strings.Contains(output, "avg"), "groups unit should not carry a per-item average")
}

func TestTimingCollectorTransactionTimerReportsAverage(t *testing.T) {
	collector := NewTimingCollector()

	timer := collector.StartStructured(TransactionTimerConfig(4))
	time.Sleep(4 * time.Millisecond)
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf)
	output := buf.String()

	assert.True(t, strings.Contains(output, "pipeline.balance"), "Output should contain the stage name")
	assert.True(t, strings.Contains(output, "4 transactions"), "Output should contain the item count and unit")
	assert.True(t, strings.Contains(output, "avg"), "transactions unit should carry a per-item average")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{100 * time.Microsecond, "100µs"},
		{500 * time.Microsecond, "500µs"},
		{999 * time.Microsecond, "999µs"},
		{1 * time.Millisecond, "1ms"},
		{10 * time.Millisecond, "10ms"},
		{100 * time.Millisecond, "100ms"},
		{999 * time.Millisecond, "999ms"},
		{1*time.Millisecond + 50*time.Microsecond, "~1ms"},
		{1*time.Millisecond + 100*time.Microsecond, "~1ms"},
		{1*time.Millisecond + 142*time.Microsecond, "~1ms"},
		{5*time.Millisecond + 500*time.Microsecond, "~6ms"},
		{1*time.Millisecond + 49*time.Microsecond, "1ms"},
		{1*time.Millisecond + 25*time.Microsecond, "1ms"},
		{1 * time.Second, "1.00s"},
		{1500 * time.Millisecond, "1.50s"},
		{2 * time.Second, "2.00s"},
	}

	for _, tt := range tests {
		got := formatDuration(tt.duration)
		assert.Equal(t, tt.want, got, "formatDuration mismatch")
	}
}

func TestTimingCollectorEmptyReport(t *testing.T) {
	collector := NewTimingCollector()

	var buf bytes.Buffer
	collector.Report(&buf)

	assert.Equal(t, 0, buf.Len(), "Empty collector should produce no output")
}

func TestWithRootTimerDoesNotOverwriteCollector(t *testing.T) {
	// Regression test: WithRootTimer once overwrote the collector in context
	// because both context keys were equal (empty struct instances).
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	retrieved := FromContext(ctx)
	retrievedTiming, ok := retrieved.(*TimingCollector)
	assert.True(t, ok && retrievedTiming == collector, "Collector should be retrievable after WithCollector")

	rootTimer := collector.Start("pipeline.run")
	ctx = WithRootTimer(ctx, rootTimer)

	retrieved = FromContext(ctx)
	retrievedTiming, ok = retrieved.(*TimingCollector)
	assert.True(t, ok && retrievedTiming == collector, "Collector should still be retrievable after WithRootTimer")

	retrievedTimer := RootTimerFromContext(ctx)
	assert.True(t, retrievedTimer != nil, "Root timer should be retrievable")

	rootTimer.End()
}

func TestCollectorStartWithRootTimer(t *testing.T) {
	// Parser-style timers created via Start() on the context's collector
	// should nest under a root timer threaded through WithRootTimer/Child.
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	runTimer := collector.Start("pipeline.run")
	ctx = WithRootTimer(ctx, runTimer)

	rootTimer := RootTimerFromContext(ctx)
	loadTimer := rootTimer.Child("loader.load")
	parseTimer := loadTimer.Child("loader.parse")

	parserCollector := FromContext(ctx)
	lexTimer := parserCollector.Start("synparse.lex")
	lexTimer.End()

	parsingTimer := parserCollector.Start("synparse.parse")
	parsingTimer.End()

	parseTimer.End()
	loadTimer.End()
	runTimer.End()

	var buf bytes.Buffer
	collector.Report(&buf)
	output := buf.String()

	assert.True(t, strings.Contains(output, "pipeline.run"), "Output should contain 'pipeline.run'")
	assert.True(t, strings.Contains(output, "loader.load"), "Output should contain 'loader.load'")
	assert.True(t, strings.Contains(output, "loader.parse"), "Output should contain 'loader.parse'")
	assert.True(t, strings.Contains(output, "synparse.lex"), "Output should contain 'synparse.lex'")
	assert.True(t, strings.Contains(output, "synparse.parse"), "Output should contain 'synparse.parse'")

	lines := strings.Split(output, "\n")
	foundParse := false
	foundLexing := false
	for _, line := range lines {
		if strings.Contains(line, "loader.parse") {
			foundParse = true
		}
		if foundParse && strings.Contains(line, "synparse.lex") {
			foundLexing = true
			assert.True(t, strings.Contains(line, "   ") || strings.Contains(line, "│  "), "synparse.lex should be indented under loader.parse")
		}
	}
	assert.True(t, foundParse, "Should find loader.parse in output")
	assert.True(t, foundLexing, "Should find synparse.lex after loader.parse in output")
}
