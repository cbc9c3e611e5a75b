// Package output renders ranked product results for the CLI, with colors
// when stdout is a terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/omnishop/omnishop/internal/corpus"
	"github.com/omnishop/omnishop/internal/search"
)

// Writer provides formatted CLI output.
type Writer struct {
	out    io.Writer
	styles Styles
}

// Option configures a Writer.
type Option func(*Writer)

// WithStyles overrides style detection.
func WithStyles(styles Styles) Option {
	return func(w *Writer) {
		w.styles = styles
	}
}

// New creates a Writer. Color is enabled only when out is the terminal and
// NO_COLOR is unset.
func New(out io.Writer) *Writer {
	w := &Writer{out: out, styles: GetStyles(!colorEnabled(out))}
	return w
}

// NewWith creates a Writer with explicit options.
func NewWith(out io.Writer, opts ...Option) *Writer {
	w := New(out)
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func colorEnabled(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Status prints a status message with an optional icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("", w.styles.Warning.Render(msg))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status("", w.styles.Error.Render(msg))
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

// Results renders a ranked result list for a query.
func (w *Writer) Results(query string, results []search.SearchResult) {
	if len(results) == 0 {
		w.Status("", fmt.Sprintf("No products found for %q", query))
		return
	}

	w.Status("", w.styles.Header.Render(fmt.Sprintf("Found %d products for %q", len(results), query)))
	w.Newline()

	for i, r := range results {
		w.result(i+1, r)
	}
}

// result renders one ranked entry: rank, title, source tag, price line,
// then score detail and any extracted specs.
func (w *Writer) result(rank int, r search.SearchResult) {
	rec := r.Record

	head := fmt.Sprintf("%d. %s %s",
		rank,
		w.styles.Title.Render(rec.Title),
		w.styles.Source(rec.Source).Render("["+rec.Source+"]"))
	if r.Injected {
		head += " " + w.styles.Injected.Render("(related via "+r.Via+")")
	}
	w.Status("", head)

	detail := []string{w.styles.Price.Render(FormatPrice(rec))}
	if rec.Category != "" {
		detail = append(detail, w.styles.Label.Render(rec.Category))
	}
	if rec.Rating != nil {
		detail = append(detail, w.styles.Label.Render(
			fmt.Sprintf("%.1f/5 (%d ratings)", rec.Rating.Average, rec.Rating.Count)))
	}
	w.Status("", "   "+strings.Join(detail, w.styles.Dim.Render(" | ")))

	score := fmt.Sprintf("score %.3f", r.Score)
	if !r.Injected {
		score += fmt.Sprintf(" (lexical %.3f, semantic %.3f)", r.LexicalScore, r.SemanticScore)
	}
	w.Status("", "   "+w.styles.Score.Render(score))

	if specs := formatSpecs(rec.ExtractedSpecs); specs != "" {
		w.Status("", "   "+w.styles.Label.Render(specs))
	}
	if rec.URL != "" {
		w.Status("", "   "+w.styles.Dim.Render(rec.URL))
	}
	w.Newline()
}

// FormatPrice renders a record price in BDT, or a placeholder when the
// price is unknown.
func FormatPrice(rec corpus.ProductRecord) string {
	if !rec.HasPrice() {
		return "price unavailable"
	}
	return fmt.Sprintf("৳%s", groupDigits(rec.Price))
}

// groupDigits inserts thousands separators into a non-negative price.
func groupDigits(price float64) string {
	s := fmt.Sprintf("%.0f", price)
	if frac := price - float64(int64(price)); frac > 0 {
		s = fmt.Sprintf("%.2f", price)
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

// formatSpecs renders extracted specs as "Key: value" pairs in key order.
func formatSpecs(specs map[string]string) string {
	if len(specs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+specs[k])
	}
	return strings.Join(parts, ", ")
}

func normalizeSource(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
