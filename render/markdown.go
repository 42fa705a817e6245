package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdownPipe = strings.NewReplacer("|", `\|`, "\n", " ")

// Markdown renders the page as a GFM table followed by the pager info and,
// when set, the active filter.
func Markdown[T any](p Page[T]) []byte {
	var buf bytes.Buffer
	headers := make([]string, len(p.Columns))
	for i, col := range p.Columns {
		headers[i] = markdownPipe.Replace(header(col, p.Sort))
	}
	buf.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	buf.WriteString("|" + strings.Repeat(" --- |", len(p.Columns)) + "\n")
	for _, item := range p.Items {
		cells := make([]string, len(p.Columns))
		for i, col := range p.Columns {
			cells[i] = markdownPipe.Replace(cellValue(col, item))
		}
		buf.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	buf.WriteString("\n" + p.Pager.Info() + "\n")
	if f := strings.TrimSpace(p.Filter); f != "" {
		fmt.Fprintf(&buf, "\nFilter: `%s`\n", f)
	}
	return buf.Bytes()
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML converts Markdown output to an HTML fragment.
func HTML(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return buf.Bytes(), nil
}
