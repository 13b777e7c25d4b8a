package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pingprobe/internal/models"
)

// outageMinRun is how many consecutive failed ticks count as an outage
const outageMinRun = 3

func (g *Generator) generateTextReport(outputDir string, hours int, records []models.Record, stats []models.Stats) error {
	filename := filepath.Join(outputDir, "summary.txt")
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(file, "Network Reachability Report\n")
	fmt.Fprintf(file, "Generated: %s\n", g.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(file, "Period: Last %d hours\n\n", hours)
	fmt.Fprintln(file, strings.Repeat("=", 60))

	fmt.Fprintln(file, "\nOVERALL STATISTICS")
	if len(stats) == 0 {
		fmt.Fprintln(file, "No samples archived in this period.")
	}
	for _, s := range stats {
		fmt.Fprintf(file, "Target: %s\n", s.Target)
		fmt.Fprintf(file, "  Samples: %d\n", s.Samples)
		fmt.Fprintf(file, "  Reachable: %d\n", s.Reachable)
		fmt.Fprintf(file, "  Average Packet Loss: %.2f%%\n", s.PacketLoss)
		if s.Reachable > 0 {
			fmt.Fprintf(file, "  Average RTT: %.2f ms\n", s.AvgRTT)
			fmt.Fprintf(file, "  Min RTT: %.2f ms\n", s.MinRTT)
			fmt.Fprintf(file, "  Max RTT: %.2f ms\n", s.MaxRTT)
		}
		fmt.Fprintln(file)
	}

	fmt.Fprintln(file, strings.Repeat("=", 60))

	fmt.Fprintf(file, "\nOUTAGE PERIODS (%d+ consecutive failed ticks)\n", outageMinRun)
	outages := models.FindOutages(records, outageMinRun)
	for i, o := range outages {
		fmt.Fprintf(file, "Outage #%d\n", i+1)
		fmt.Fprintf(file, "  Start: %s\n", o.StartTime.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(file, "  End: %s\n", o.EndTime.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(file, "  Duration: %s\n", o.Duration)
		fmt.Fprintf(file, "  Failed Checks: %d\n", o.FailedChecks)
		fmt.Fprintln(file)
	}
	if len(outages) == 0 {
		fmt.Fprintln(file, "No significant outages detected.")
	} else {
		fmt.Fprintf(file, "\nTotal Outages: %d\n", len(outages))
	}

	fmt.Fprintln(file, strings.Repeat("=", 60))

	fmt.Fprintln(file, "\nPROBE ERRORS")
	messages := errorMessages(records)
	if len(messages) == 0 {
		fmt.Fprintln(file, "No probe errors recorded.")
	}
	for _, m := range messages {
		fmt.Fprintf(file, "  %5d  %s\n", m.count, m.message)
	}

	return nil
}

type messageCount struct {
	message string
	count   int
}

// errorMessages counts distinct probe error messages in order of first appearance
func errorMessages(records []models.Record) []messageCount {
	index := make(map[string]int)
	var out []messageCount
	for _, r := range records {
		if r.Measurement != models.MeasurementError {
			continue
		}
		i, ok := index[r.ErrorMessage]
		if !ok {
			i = len(out)
			index[r.ErrorMessage] = i
			out = append(out, messageCount{message: r.ErrorMessage})
		}
		out[i].count++
	}
	return out
}
