package downloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
)

func parseLogLevel(value string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LogDebug
	case "warn", "warning":
		return LogWarn
	case "error":
		return LogError
	default:
		return LogInfo
	}
}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Printer writes run output to stderr. When a runUI is attached, item and
// progress output is routed through the interactive view instead of being
// printed line by line.
type Printer struct {
	quiet       bool
	level       LogLevel
	color       bool
	columns     int
	titleWidth  int
	ui          *runUI
	progressing bool
}

func newPrinter(opts Options) *Printer {
	columns := terminalColumns()
	if columns <= 0 {
		columns = 100
	}
	titleWidth := columns - 44
	if titleWidth < 20 {
		titleWidth = 20
	}
	if titleWidth > 60 {
		titleWidth = 60
	}
	return &Printer{
		quiet:      opts.Quiet,
		level:      parseLogLevel(opts.LogLevel),
		color:      supportsColor(),
		columns:    columns,
		titleWidth: titleWidth,
	}
}

func (p *Printer) attachUI(ui *runUI) {
	p.ui = ui
}

func (p *Printer) Log(level LogLevel, msg string) {
	if level < p.level {
		return
	}
	if p.quiet && level < LogError {
		return
	}
	if level == LogWarn {
		msg = p.styled(warnStyle, msg)
	}
	if p.ui != nil {
		p.ui.Line(msg)
		return
	}
	p.clearProgress()
	fmt.Fprintln(os.Stderr, msg)
}

func (p *Printer) Prefix(index, total int, title string) string {
	if total <= 0 {
		total = 1
	}
	width := len(strconv.Itoa(total))
	idx := fmt.Sprintf("%*d/%d", width, index, total)
	return fmt.Sprintf("[%s] %-*s", idx, p.titleWidth, truncateText(title, p.titleWidth))
}

func (p *Printer) Progress(prefix string, current, total int64, elapsed time.Duration) {
	if p.quiet {
		return
	}
	if p.ui != nil {
		p.ui.Progress(prefix, current, total)
		return
	}
	speed := ""
	if elapsed > 0 {
		speed = humanBytes(int64(float64(current)/elapsed.Seconds())) + "/s"
	}
	var line string
	if total > 0 {
		percent := float64(current) * 100 / float64(total)
		line = fmt.Sprintf("%s %6.2f%% %s / %s %s", prefix, percent,
			padLeft(humanBytes(current), 9), padLeft(humanBytes(total), 9), padLeft(speed, 10))
	} else {
		line = fmt.Sprintf("%s %s %s", prefix, padLeft(humanBytes(current), 9), padLeft(speed, 10))
	}
	fmt.Fprintf(os.Stderr, "\r%s", truncateText(line, p.columns))
	p.progressing = true
}

func (p *Printer) ProgressDone() {
	if p.ui != nil {
		p.ui.Progress("", 0, 0)
		return
	}
	p.clearProgress()
}

func (p *Printer) ItemResult(prefix, outputPath string, bytes int64, err error) {
	if err == nil && p.quiet {
		return
	}
	status := p.styled(okStyle, "OK")
	detail := fmt.Sprintf("%s %s", padLeft(humanBytes(bytes), 9), outputPath)
	if err != nil {
		status = p.styled(failStyle, "FAIL")
		detail = err.Error()
	}
	p.item(fmt.Sprintf("%s %s %s", prefix, status, detail))
}

func (p *Printer) ItemSkipped(prefix, reason string) {
	if p.quiet {
		return
	}
	p.item(fmt.Sprintf("%s %s %s", prefix, p.styled(skipStyle, "SKIP"), reason))
}

func (p *Printer) Summary(total, ok, failed, skipped int, bytes int64) {
	if p.quiet {
		return
	}
	line := fmt.Sprintf("Summary: %s %d | %s %d | %s %d | TOTAL %d | SIZE %s",
		p.styled(okStyle, "OK"), ok,
		p.styled(failStyle, "FAIL"), failed,
		p.styled(skipStyle, "SKIP"), skipped,
		total, humanBytes(bytes))
	p.item(line)
}

func (p *Printer) item(line string) {
	if p.ui != nil {
		p.ui.Line(line)
		return
	}
	p.clearProgress()
	fmt.Fprintln(os.Stderr, line)
}

func (p *Printer) clearProgress() {
	if !p.progressing {
		return
	}
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", p.columns))
	p.progressing = false
}

func (p *Printer) styled(style lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return style.Render(text)
}

func padLeft(value string, width int) string {
	if len(value) >= width {
		return value
	}
	return strings.Repeat(" ", width-len(value)) + value
}

func truncateText(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	if max <= 3 {
		return text[:max]
	}
	return text[:max-3] + "..."
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for n >= unit*div && exp < 4 {
		div *= unit
		exp++
	}
	value := float64(n) / float64(div)
	suffix := []string{"KB", "MB", "GB", "TB"}
	return fmt.Sprintf("%.1f%s", value, suffix[exp])
}

func terminalColumns() int {
	if columns := os.Getenv("COLUMNS"); columns != "" {
		if val, err := strconv.Atoi(columns); err == nil && val > 0 {
			return val
		}
	}
	return 0
}

func supportsColor() bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" || os.Getenv("CLICOLOR_FORCE") != "" {
		return true
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	return isTerminal(os.Stderr)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
