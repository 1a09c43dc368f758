package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/ehuang2/releaseflow/internal/contract"
	"github.com/ehuang2/releaseflow/schema"
)

// Title truncation widths, matching the narrow and wide list styles.
const (
	wideTitleWidth   = 50
	narrowTitleWidth = 40
)

// sectionRule separates report sections.
var sectionRule = strings.Repeat("━", 40)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// getTerminalWidth returns the configured or detected terminal width.
func getTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// titleWidth shrinks a title budget on narrow terminals, reserving
// room for the number, author and status columns around it.
func titleWidth(cfg *contract.Config, max int) int {
	available := getTerminalWidth(cfg) - 30
	if available < 20 {
		return 20
	}
	if available > max {
		return max
	}
	return available
}

// formatLines renders a diff stat as "+1,234 / -567".
func formatLines(stats schema.DiffStat) string {
	return fmt.Sprintf("+%s / -%s", groupDigits(stats.Additions), groupDigits(stats.Deletions))
}

// groupDigits inserts thousands separators into a non-negative count.
func groupDigits(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// outcomeIcon maps an outcome to its marker.
func outcomeIcon(outcome schema.Outcome) string {
	if outcome == schema.CleanOutcome {
		return "✅"
	}
	return "⚠️"
}

// areaOrder fixes the display order for area breakdowns.
var areaOrder = []schema.Area{
	schema.AreaFrontend,
	schema.AreaBackend,
	schema.AreaContentTool,
	schema.AreaOther,
}

// writeAreaBreakdown prints per-area line totals, skipping empty areas.
func writeAreaBreakdown(w io.Writer, totals map[schema.Area]schema.DiffStat) error {
	if len(totals) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "By area:"); err != nil {
		return err
	}
	for _, area := range areaOrder {
		stats, ok := totals[area]
		if !ok || stats.Total() == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %-13s %s\n", string(area), formatLines(stats)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
