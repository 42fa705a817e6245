package pager

import (
	"context"
	"testing"
)

func TestPageCount(t *testing.T) {
	for count := 0; count <= 50; count++ {
		for limit := 1; limit <= 12; limit++ {
			want := (count + limit - 1) / limit
			if want < 1 {
				want = 1
			}
			if got := PageCount(count, limit); got != want {
				t.Fatalf("PageCount(%d, %d) = %d, want %d", count, limit, got, want)
			}
		}
	}
	if PageCount(100, 0) != 1 {
		t.Fatalf("expected unlimited paging to have one page")
	}
}

func TestPager_InvariantsHoldAfterEveryCall(t *testing.T) {
	p := New(7)
	ops := []func(){
		func() { p.UpdateItemCount(30) },
		func() { p.SelectPage(5) },
		func() { p.SelectPage(99) },
		func() { p.UpdateItemCount(8) },
		func() { p.SelectPage(-3) },
		func() { p.UpdateItemCount(0) },
		func() { p.SetLimit(3) },
		func() { p.UpdateItemCount(10) },
		func() { p.SelectPage(4) },
		func() { p.SetLimit(0) },
	}
	for i, op := range ops {
		op()
		s := p.Get()
		if s.PageCount != PageCount(s.ItemCount, s.Limit) {
			t.Fatalf("op %d: page count %d does not match count %d limit %d", i, s.PageCount, s.ItemCount, s.Limit)
		}
		if s.SelectedPage < 1 || s.SelectedPage > s.PageCount {
			t.Fatalf("op %d: selected page %d outside [1, %d]", i, s.SelectedPage, s.PageCount)
		}
		wantOffset := 0
		if s.Limit > 0 {
			wantOffset = (s.SelectedPage - 1) * s.Limit
		}
		if s.Offset != wantOffset {
			t.Fatalf("op %d: offset %d, want %d", i, s.Offset, wantOffset)
		}
	}
}

func TestPager_ItemCountShrinkClampsPage(t *testing.T) {
	p := New(10)
	p.UpdateItemCount(25)
	p.SelectPage(3)
	if s := p.Get(); s.PageCount != 3 || s.SelectedPage != 3 || s.Offset != 20 {
		t.Fatalf("expected page 3 of 3 at offset 20, got %+v", s)
	}

	s := p.UpdateItemCount(5)
	if s.PageCount != 1 || s.SelectedPage != 1 || s.Offset != 0 {
		t.Fatalf("expected clamp to page 1 at offset 0, got %+v", s)
	}
}

func TestPager_UnchangedCountDoesNotNotify(t *testing.T) {
	p := New(10)
	p.UpdateItemCount(12)
	calls := 0
	p.State().Subscribe(func() { calls++ })

	p.UpdateItemCount(12)
	if calls != 0 {
		t.Fatalf("expected idempotent count update to stay silent, got %d", calls)
	}
	p.UpdateItemCount(13)
	if calls != 1 {
		t.Fatalf("expected 1 notification, got %d", calls)
	}
}

func TestPager_SetLimitKeepsPage(t *testing.T) {
	p := New(10)
	p.UpdateItemCount(100)
	p.SelectPage(4)
	s := p.SetLimit(20)
	if s.SelectedPage != 4 || s.Offset != 60 || s.PageCount != 5 {
		t.Fatalf("expected page 4 at offset 60 of 5 pages, got %+v", s)
	}
	s = p.SetLimit(50)
	if s.SelectedPage != 2 || s.Offset != 50 {
		t.Fatalf("expected page clamped to 2, got %+v", s)
	}
}

func TestPager_SelectPageCommand(t *testing.T) {
	p := New(5)
	p.UpdateItemCount(12)
	s, err := p.SelectPageCommand().Execute(context.Background(), 3)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if s.SelectedPage != 3 || s.Offset != 10 {
		t.Fatalf("expected page 3 at offset 10, got %+v", s)
	}
}

func TestPager_Info(t *testing.T) {
	if got := (State{}).Normalize().Info(); got != EmptyInfo {
		t.Fatalf("expected empty info, got %q", got)
	}
	s := State{ItemCount: 25, Limit: 10, SelectedPage: 3}.Normalize()
	if got := s.Info(); got != "Showing Items 21 through 25 of 25" {
		t.Fatalf("unexpected info %q", got)
	}
	s = State{ItemCount: 25, SelectedPage: 1}.Normalize()
	if got := s.Info(); got != "Showing Items 1 through 25 of 25" {
		t.Fatalf("unexpected unlimited info %q", got)
	}
}

func TestPager_RoutingState(t *testing.T) {
	p := New(10)
	if rs := p.RoutingState(); rs.Limit != nil || rs.SelectedPage != nil {
		t.Fatalf("expected defaults to be omitted, got %+v", rs)
	}

	p.UpdateItemCount(100)
	limit, page := 25, 3
	p.SetRoutingState(RoutingState{Limit: &limit, SelectedPage: &page})
	s := p.Get()
	if s.Limit != 25 || s.SelectedPage != 3 || s.Offset != 50 {
		t.Fatalf("expected limit 25 page 3, got %+v", s)
	}

	rs := p.RoutingState()
	if rs.Limit == nil || *rs.Limit != 25 || rs.SelectedPage == nil || *rs.SelectedPage != 3 {
		t.Fatalf("unexpected routing state %+v", rs)
	}

	p.SetRoutingState(RoutingState{})
	if got := p.Get(); got != s {
		t.Fatalf("expected absent fields to keep state, got %+v", got)
	}
}

func TestPager_RoutedPageWaitsForItemCount(t *testing.T) {
	p := New(3)
	page := 3
	p.SetRoutingState(RoutingState{SelectedPage: &page})
	if s := p.Get(); s.SelectedPage != 1 {
		t.Fatalf("expected page clamped while no items are known, got %+v", s)
	}
	if rs := p.RoutingState(); rs.SelectedPage == nil || *rs.SelectedPage != 3 {
		t.Fatalf("expected routing state to keep the requested page, got %+v", rs)
	}

	s := p.UpdateItemCount(11)
	if s.SelectedPage != 3 || s.Offset != 6 {
		t.Fatalf("expected requested page once items arrive, got %+v", s)
	}
	if p.Requested() != 0 {
		t.Fatalf("expected request consumed, got %d", p.Requested())
	}
	if s := p.UpdateItemCount(2); s.SelectedPage != 1 {
		t.Fatalf("expected later counts to clamp normally, got %+v", s)
	}
}

func TestPager_RoutedPageClampsOnArrival(t *testing.T) {
	p := New(3)
	page := 9
	p.SetRoutingState(RoutingState{SelectedPage: &page})
	if s := p.UpdateItemCount(5); s.SelectedPage != 2 {
		t.Fatalf("expected out of range request clamped to the last page, got %+v", s)
	}
	if p.Requested() != 0 {
		t.Fatalf("expected request consumed, got %d", p.Requested())
	}
}

func TestPager_SelectPageDropsRoutedPage(t *testing.T) {
	p := New(3)
	page := 3
	p.SetRoutingState(RoutingState{SelectedPage: &page})
	p.SelectPage(1)
	if s := p.UpdateItemCount(11); s.SelectedPage != 1 {
		t.Fatalf("expected explicit selection to win, got %+v", s)
	}
}
