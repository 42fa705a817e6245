package datagrid

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/odvcencio/furry-grid/compare"
)

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	cases := []struct {
		offset, limit int
		want          []int
	}{
		{0, 3, []int{1, 2, 3}},
		{6, 3, []int{7}},
		{3, 0, []int{4, 5, 6, 7}},
		{7, 3, []int{}},
		{-2, 2, []int{1, 2}},
	}
	for _, tc := range cases {
		got := Page(items, tc.offset, tc.limit)
		if len(got) != len(tc.want) {
			t.Fatalf("Page(%d, %d) = %v, want %v", tc.offset, tc.limit, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("Page(%d, %d) = %v, want %v", tc.offset, tc.limit, got, tc.want)
			}
		}
	}
}

func TestMemoryProjector_FilterSortPage(t *testing.T) {
	p := MemoryProjector[string]{
		Filter: func(s string, m *regexp.Regexp) bool { return m.MatchString(s) },
		Comparer: compare.NewFieldComparer(compare.WithKey("text", func(s string) any {
			return s
		})),
	}
	req := Request[string]{
		Items:   []string{"pear", "apple", "plum", "peach", "fig"},
		Matcher: regexp.MustCompile("(?i)^p"),
		Limit:   2,
		Sort:    compare.By("text", compare.Descending),
	}
	res, err := p.Project(context.Background(), req)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if res.Count != 3 {
		t.Fatalf("expected count before paging 3, got %d", res.Count)
	}
	if len(res.Items) != 2 || res.Items[0] != "plum" || res.Items[1] != "pear" {
		t.Fatalf("unexpected page %v", res.Items)
	}
}

func TestMemoryProjector_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := MemoryProjector[int]{}.Project(ctx, Request[int]{Items: []int{1}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTextFilterer_IgnoresWhitespace(t *testing.T) {
	f := TextFilterer(func(s string) string { return s })
	m := regexp.MustCompile("(?i)test1")
	for _, s := range []string{"test 1", "Test 10", "test  11"} {
		if !f(s, m) {
			t.Fatalf("expected %q to match", s)
		}
	}
	if f("test 2", m) {
		t.Fatalf("expected test 2 not to match")
	}
}

func TestRequestEqual(t *testing.T) {
	a := Request[int]{Items: []int{1}, Version: 1, Filter: "x", Limit: 10}
	b := a
	b.Items = []int{2}
	b.Seq = 9
	if !a.Equal(b) {
		t.Fatalf("expected items and seq to be ignored")
	}
	b.Version = 2
	if a.Equal(b) {
		t.Fatalf("expected version change to differ")
	}
}
