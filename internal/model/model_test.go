package model

import (
	"math"
	"testing"
)

func TestSizeMetrics(t *testing.T) {
	s := NewSize(30, 4)
	if s.Area() != 120 {
		t.Errorf("expected area 120, got %d", s.Area())
	}
	if s.Perimeter() != 68 {
		t.Errorf("expected perimeter 68, got %d", s.Perimeter())
	}
	if s.MaxSide() != 30 || s.MinSide() != 4 {
		t.Errorf("unexpected sides max=%d min=%d", s.MaxSide(), s.MinSide())
	}
	if s.Flip() != NewSize(4, 30) {
		t.Errorf("expected flipped 4x30, got %v", s.Flip())
	}
	// 30/4 truncates to 7
	if s.PathologicalMult() != 7*120 {
		t.Errorf("expected pathological 840, got %d", s.PathologicalMult())
	}
	if NewSize(0, 10).PathologicalMult() != 0 {
		t.Error("expected degenerate size to score 0")
	}
	if s.String() != "30x4" {
		t.Errorf("expected 30x4, got %s", s.String())
	}
}

func TestSizeExpandWith(t *testing.T) {
	var s Size
	s = s.ExpandWith(NewRect(10, 0, 5, 5))
	s = s.ExpandWith(NewRect(0, 20, 3, 1))
	s = s.ExpandWith(NewRect(1, 1, 1, 1))
	if s != NewSize(15, 21) {
		t.Errorf("expected 15x21, got %v", s)
	}
}

func TestFitsIn(t *testing.T) {
	space := NewSize(10, 5)
	tests := []struct {
		size      Size
		allowFlip bool
		want      Fit
	}{
		{NewSize(10, 5), true, FitExact},
		{NewSize(5, 10), true, FitExactFlipped},
		{NewSize(5, 10), false, FitNone},
		{NewSize(8, 4), true, FitNormal},
		{NewSize(4, 8), true, FitFlipped},
		{NewSize(4, 8), false, FitNone},
		{NewSize(11, 1), true, FitNone},
	}
	for _, tt := range tests {
		got := tt.size.FitsIn(space, tt.allowFlip)
		if got != tt.want {
			t.Errorf("%v in %v (flip=%v): expected %s, got %s", tt.size, space, tt.allowFlip, tt.want, got)
		}
		if got.Fits() != (tt.want != FitNone) {
			t.Errorf("%v: Fits() mismatch", tt.size)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	if !a.Intersects(NewRect(5, 5, 10, 10)) {
		t.Error("expected overlapping rects to intersect")
	}
	if a.Intersects(NewRect(10, 0, 5, 5)) {
		t.Error("touching edges must not count as intersection")
	}
	if a.Intersects(NewRect(0, 10, 5, 5)) {
		t.Error("touching edges must not count as intersection")
	}
	if !a.ContainsRect(NewRect(2, 2, 8, 8)) {
		t.Error("expected containment")
	}
	if a.ContainsRect(NewRect(2, 2, 9, 8)) {
		t.Error("rect sticking out must not be contained")
	}
}

func TestItemPlaceAndUnplace(t *testing.T) {
	it := NewItem("tile", 30, 10)
	if len(it.ID) != 8 {
		t.Errorf("expected 8 character ID, got %q", it.ID)
	}

	it.Place(NewRect(5, 6, 10, 30), true)
	if !it.Flipped || it.Width != 10 || it.Height != 30 {
		t.Fatalf("unexpected placement %+v", it)
	}
	if it.Submitted() != NewSize(30, 10) {
		t.Errorf("expected submitted 30x10, got %v", it.Submitted())
	}

	it.Unplace()
	if it.Flipped || it.Width != 30 || it.Height != 10 {
		t.Errorf("expected submitted orientation restored, got %+v", it)
	}
}

func TestPackResultStats(t *testing.T) {
	a := NewItem("a", 10, 10)
	b := NewItem("b", 10, 20)
	pr := PackResult{Size: NewSize(20, 20), Placed: []Item{a, b}}

	if pr.UsedArea() != 300 {
		t.Errorf("expected used area 300, got %d", pr.UsedArea())
	}
	if math.Abs(pr.Efficiency()-75.0) > 1e-9 {
		t.Errorf("expected 75%% efficiency, got %f", pr.Efficiency())
	}
	if !pr.Complete() {
		t.Error("expected complete result")
	}
	if (PackResult{}).Efficiency() != 0 {
		t.Error("empty result must have zero efficiency")
	}
}

func TestDetectLeftovers(t *testing.T) {
	free := []Rect{
		NewRect(0, 50, 40, 100), // clipped to 40x50
		NewRect(60, 0, 2, 80),   // too narrow
		NewRect(40, 0, 60, 60),  // clipped to 40x60
		NewRect(0, 200, 50, 50), // outside the box
	}
	got := DetectLeftovers(free, NewSize(80, 100), MinLeftoverSide)

	want := []Rect{NewRect(40, 0, 40, 60), NewRect(0, 50, 40, 50)}
	if len(got) != len(want) {
		t.Fatalf("expected %d leftovers, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("leftover %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if TotalLeftoverArea(got) != 2400+2000 {
		t.Errorf("unexpected total leftover area %d", TotalLeftoverArea(got))
	}
}

func TestCalculateEstimate(t *testing.T) {
	items := []Item{
		NewItem("a", 30, 30),
		NewItem("b", 10, 60),
		NewItem("c", 120, 5),
	}
	est := CalculateEstimate(items, 100, true)

	if est.ItemCount != 3 {
		t.Errorf("expected 3 items, got %d", est.ItemCount)
	}
	if est.TotalArea != 900+600+600 {
		t.Errorf("expected total area 2100, got %d", est.TotalArea)
	}
	if est.LargestSide != 120 {
		t.Errorf("expected largest side 120, got %d", est.LargestSide)
	}
	if est.MinSquareSide != 120 {
		t.Errorf("expected min square side 120, got %d", est.MinSquareSide)
	}
	if est.Oversized != 1 {
		t.Errorf("expected 1 oversized item, got %d", est.Oversized)
	}
	if math.Abs(est.FillRatio-21.0) > 1e-9 {
		t.Errorf("expected fill ratio 21%%, got %f", est.FillRatio)
	}

	est = CalculateEstimate([]Item{NewItem("a", 10, 10), NewItem("b", 10, 11)}, 100, false)
	// sqrt(210) rounds up to 15
	if est.MinSquareSide != 15 {
		t.Errorf("expected min square side 15, got %d", est.MinSquareSide)
	}
}

func TestProfileStore(t *testing.T) {
	ps := NewProfileStore()

	if err := ps.Add(NewProfile("atlas-4k", "", DefaultSettings())); err == nil {
		t.Error("expected error replacing a built-in profile")
	}
	if err := ps.Add(NewProfile("", "", DefaultSettings())); err == nil {
		t.Error("expected error for unnamed profile")
	}

	custom := DefaultSettings()
	custom.MaxBinSide = 512
	if err := ps.Add(NewProfile("small", "tiny atlas", custom)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	custom.MaxBinSide = 256
	if err := ps.Add(NewProfile("small", "tinier atlas", custom)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if len(ps.Profiles) != 1 {
		t.Fatalf("expected replacement, got %d profiles", len(ps.Profiles))
	}

	p := ps.Find("small")
	if p == nil || p.Settings.MaxBinSide != 256 {
		t.Fatalf("expected small profile with 256, got %+v", p)
	}

	b := ps.Find("fast")
	if b == nil || !b.IsBuiltIn || b.Settings.SpacePolicy != SpacesBounded {
		t.Fatalf("unexpected built-in %+v", b)
	}
	b.Settings.MaxBinSide = 1
	if ps.Find("fast").Settings.MaxBinSide != 4096 {
		t.Error("Find must not expose built-ins for mutation")
	}

	names := ps.Names()
	if len(names) != len(BuiltinProfiles)+1 || names[len(names)-1] != "small" {
		t.Errorf("unexpected names %v", names)
	}

	if !ps.Remove("small") || ps.Remove("small") {
		t.Error("expected exactly one successful removal")
	}
}

func TestProfileApplyToSettings(t *testing.T) {
	s := DefaultSettings()
	s.Orders = []string{"area"}
	s.StopOnFailure = true

	p := BuiltinProfiles[3]
	p.ApplyToSettings(&s)

	if s.DiscardStep != 16 || s.SpacePolicy != SpacesBounded {
		t.Errorf("profile not applied: %+v", s)
	}
	if len(s.Orders) != len(DefaultOrderNames) {
		t.Errorf("expected profile orders, got %v", s.Orders)
	}
	if !s.StopOnFailure {
		t.Error("StopOnFailure is not part of a profile")
	}
}

func TestAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultMaxBinSide = 2048
	cfg.DefaultAllowFlip = false

	s := DefaultSettings()
	cfg.ApplyToSettings(&s)
	if s.MaxBinSide != 2048 || s.AllowFlip {
		t.Errorf("config defaults not applied: %+v", s)
	}

	cfg.AddRecentProject("a.json", 2)
	cfg.AddRecentProject("b.json", 2)
	cfg.AddRecentProject("a.json", 2)
	cfg.AddRecentProject("c.json", 2)
	if len(cfg.RecentProjects) != 2 || cfg.RecentProjects[0] != "c.json" || cfg.RecentProjects[1] != "a.json" {
		t.Errorf("unexpected recent projects %v", cfg.RecentProjects)
	}
}
