// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/ehuang2/releaseflow/internal/contract"
	"github.com/ehuang2/releaseflow/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WritePreview prints the preview report using the configured output format.
func (ow *OutWriter) WritePreview(report *schema.PreviewReport, cfg *contract.Config, duration time.Duration) error {
	return PrintPreviewReport(report, cfg, duration)
}

// WriteRetro prints the retro report using the configured output format.
func (ow *OutWriter) WriteRetro(report *schema.RetroReport, cfg *contract.Config, duration time.Duration) error {
	return PrintRetroReport(report, cfg, duration)
}

// WriteTrend prints the trend report using the configured output format.
func (ow *OutWriter) WriteTrend(report *schema.TrendReport, cfg *contract.Config, duration time.Duration) error {
	return PrintTrendReport(report, cfg, duration)
}

// WriteNoReleaseTrain prints the empty-lookback message.
func (ow *OutWriter) WriteNoReleaseTrain(cfg *contract.Config) error {
	return PrintNoReleaseTrain(cfg)
}

// PrintPreviewReport outputs the preview, dispatching on the configured format.
func PrintPreviewReport(report *schema.PreviewReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePreviewText(w, report, cfg, duration)
		}, "Wrote report")
	}
}

// PrintRetroReport outputs the retro, dispatching on the configured format.
func PrintRetroReport(report *schema.RetroReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRetroText(w, report, cfg, duration)
		}, "Wrote report")
	}
}

// PrintTrendReport outputs the trend table, dispatching on the configured format.
func PrintTrendReport(report *schema.TrendReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTrendText(w, report, cfg, duration)
		}, "Wrote report")
	}
}

// PrintNoReleaseTrain explains the empty-lookback case. This is a
// terminal message on the success path, not an error.
func PrintNoReleaseTrain(cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "No release train found in last %d days.\n", cfg.LookbackDays); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, "Run this command after a release train is merged.")
		return err
	}, "Wrote report")
}
