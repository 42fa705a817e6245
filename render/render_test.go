package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/odvcencio/furry-grid/compare"
	"github.com/odvcencio/furry-grid/pager"
)

type task struct {
	Name string
	Due  string
}

var columns = []Column[task]{
	{Title: "Name", Field: "name", Value: func(t task) string { return t.Name }},
	{Title: "Due", Value: func(t task) string { return t.Due }, MaxWidth: 6},
}

func samplePage() Page[task] {
	return Page[task]{
		Columns: columns,
		Items: []task{
			{Name: "test 1", Due: "now"},
			{Name: "test 10", Due: "yesterday"},
		},
		Sort:  compare.By("name", compare.Descending),
		Pager: pager.State{ItemCount: 11, Limit: 2, Offset: 0, PageCount: 6, SelectedPage: 1},
	}
}

func TestLines(t *testing.T) {
	assert.Equal(t, Lines(samplePage()), []string{
		"Name ▼   Due",
		"───────  ──────",
		"test 1   now",
		"test 10  yes...",
		"Showing Items 1 through 2 of 11",
	})
}

func TestLines_Empty(t *testing.T) {
	p := Page[task]{Columns: columns, Pager: pager.State{PageCount: 1, SelectedPage: 1}}
	lines := Lines(p)
	if len(lines) != 3 || lines[2] != pager.EmptyInfo {
		t.Fatalf("expected header, rule and empty info, got %q", lines)
	}
}

func TestFit(t *testing.T) {
	assert.Equal(t, Fit("ab", 4), "ab  ")
	assert.Equal(t, Fit("abcdef", 5), "ab...")
	assert.Equal(t, Fit("日本語", 4), "... ")
	assert.Equal(t, Fit("x", 0), "")
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	if err := Text(&buf, samplePage()); err != nil {
		t.Fatalf("text: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Name ▼   Due\n") {
		t.Fatalf("unexpected text output %q", buf.String())
	}
}

func TestMarkdownAndHTML(t *testing.T) {
	p := samplePage()
	p.Items = append(p.Items, task{Name: "a|b", Due: "later"})
	p.Filter = "test1"
	md := string(Markdown(p))
	for _, want := range []string{
		"| Name ▼ | Due |\n",
		"| --- | --- |\n",
		`| a\|b | later |`,
		"Showing Items 1 through 2 of 11",
		"Filter: `test1`",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected markdown to contain %q, got:\n%s", want, md)
		}
	}

	html, err := HTML([]byte(md))
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	for _, want := range []string{"<table>", "<th>Name ▼</th>", "<td>test 10</td>", "<td>a|b</td>"} {
		if !strings.Contains(string(html), want) {
			t.Fatalf("expected html to contain %q, got:\n%s", want, html)
		}
	}
}

func TestHighlightJSON(t *testing.T) {
	var plain bytes.Buffer
	if err := HighlightJSON(&plain, []byte(`{"sortBy":"name"}`), "noop", ""); err != nil {
		t.Fatalf("highlight: %v", err)
	}
	if !strings.Contains(plain.String(), `{"sortBy":"name"}`) {
		t.Fatalf("expected noop formatter to keep the source, got %q", plain.String())
	}

	var colored bytes.Buffer
	if err := HighlightJSON(&colored, []byte(`{"sortBy":"name"}`), "", ""); err != nil {
		t.Fatalf("highlight: %v", err)
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("expected terminal escapes, got %q", colored.String())
	}
}
