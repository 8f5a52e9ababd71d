package services

import "testing"

func TestInferRequirement(t *testing.T) {
	cases := []struct {
		geos, cats int
		id         int
		link       LinkPattern
		screener   ScreenerPattern
	}{
		{0, 0, 1, LinkPatternSingle, ScreenerPatternSingle},
		{1, 1, 1, LinkPatternSingle, ScreenerPatternSingle},
		{2, 1, 2, LinkPatternGeo, ScreenerPatternMultiple},
		{1, 3, 4, LinkPatternCategory, ScreenerPatternMultiple},
		{2, 2, 5, LinkPatternGeoCategory, ScreenerPatternMultiple},
	}
	for _, c := range cases {
		r := InferRequirement(c.geos, c.cats)
		if r.ID != c.id || r.LiveLinkPattern != c.link || r.ScreenerPattern != c.screener {
			t.Fatalf("infer(%d,%d) = %+v", c.geos, c.cats, r)
		}
	}
	if r := InferRequirement(2, 1); r.GeographyCount != CardinalityMultiple || r.CategoryCount != CardinalitySingle {
		t.Fatalf("2+1 should be multi-geo single-cat: %+v", r)
	}
}

func TestDetectedRequirementRoundTrip(t *testing.T) {
	r := InferRequirement(3, 1)
	b, err := EncodeRequirement(r)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeRequirement(b)
	if err != nil || got.ScreenerPattern != ScreenerPatternMultiple {
		t.Fatalf("decode detected: %+v %v", got, err)
	}
	catalog, _ := RequirementByID(2)
	if catalog.ScreenerPattern != ScreenerPatternSingle {
		t.Fatalf("catalog entry 2 changed: %+v", catalog)
	}
}

func TestCatalogIDsUnique(t *testing.T) {
	seen := map[int]bool{}
	for _, r := range Requirements() {
		if seen[r.ID] {
			t.Fatalf("duplicate id %d", r.ID)
		}
		seen[r.ID] = true
		if !r.LiveLinkPattern.Valid() {
			t.Fatalf("requirement %d has invalid pattern %q", r.ID, r.LiveLinkPattern)
		}
	}
}

func TestDecodeRequirement(t *testing.T) {
	r, _ := RequirementByID(3)
	b, err := EncodeRequirement(r)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeRequirement(b)
	if err != nil || got.ID != 3 {
		t.Fatalf("decode: %+v %v", got, err)
	}
	bad := [][]byte{
		[]byte("{not json"),
		[]byte(`{"id":42,"live_link_pattern":"single","screener_pattern":"single"}`),
		[]byte(`{"id":1,"geography_count":"single","category_count":"single","live_link_pattern":"geo-based","screener_pattern":"single"}`),
	}
	for _, b := range bad {
		if _, err := DecodeRequirement(b); err == nil {
			t.Fatalf("expected error for %s", b)
		}
	}
}
