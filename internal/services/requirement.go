package services

import (
	"encoding/json"
	"strconv"
)

// RequirementCatalog lists every flow requirement. Ids are stable and each id always carries the same patterns.
var RequirementCatalog = []FlowRequirement{
	{
		ID:              1,
		Name:            "Requirement 1",
		Description:     "Single geography, single category, single live link, single screener set",
		GeographyCount:  CardinalitySingle,
		CategoryCount:   CardinalitySingle,
		LiveLinkPattern: LinkPatternSingle,
		ScreenerPattern: ScreenerPatternSingle,
	},
	{
		ID:              2,
		Name:            "Requirement 2",
		Description:     "Multiple geographies, single category, multiple geo-based live links, single screener set",
		GeographyCount:  CardinalityMultiple,
		CategoryCount:   CardinalitySingle,
		LiveLinkPattern: LinkPatternGeo,
		ScreenerPattern: ScreenerPatternSingle,
	},
	{
		ID:              3,
		Name:            "Requirement 3",
		Description:     "Single geography, multiple categories, single live link, multiple screener sets",
		GeographyCount:  CardinalitySingle,
		CategoryCount:   CardinalityMultiple,
		LiveLinkPattern: LinkPatternSingle,
		ScreenerPattern: ScreenerPatternMultiple,
	},
	{
		ID:              4,
		Name:            "Potential (based on R3)",
		Description:     "Single geography, multiple categories, multiple category-based live links, multiple screener sets",
		GeographyCount:  CardinalitySingle,
		CategoryCount:   CardinalityMultiple,
		LiveLinkPattern: LinkPatternCategory,
		ScreenerPattern: ScreenerPatternMultiple,
	},
	{
		ID:              5,
		Name:            "Requirement 4",
		Description:     "Multiple geographies, multiple categories, multiple geo & category-based live links, multiple screener sets",
		GeographyCount:  CardinalityMultiple,
		CategoryCount:   CardinalityMultiple,
		LiveLinkPattern: LinkPatternGeoCategory,
		ScreenerPattern: ScreenerPatternMultiple,
	},
}

func Requirements() []FlowRequirement {
	return append([]FlowRequirement(nil), RequirementCatalog...)
}

func RequirementByID(id int) (FlowRequirement, bool) {
	for _, r := range RequirementCatalog {
		if r.ID == id {
			return r, true
		}
	}
	return FlowRequirement{}, false
}

// InferRequirement picks the catalog entry matching the number of distinct geographies and categories.
// A detected multi-geography, single-category flow gets one screener set per category.
func InferRequirement(geoCount, catCount int) FlowRequirement {
	id := 5
	switch {
	case geoCount <= 1 && catCount <= 1:
		id = 1
	case geoCount > 1 && catCount <= 1:
		id = 2
	case geoCount <= 1 && catCount > 1:
		id = 4
	}
	return detectedRequirement(id)
}

func detectedRequirement(id int) FlowRequirement {
	r, _ := RequirementByID(id)
	if id == 2 {
		r.ScreenerPattern = ScreenerPatternMultiple
	}
	return r
}

func sameShape(a, b FlowRequirement) bool {
	return a.LiveLinkPattern == b.LiveLinkPattern && a.ScreenerPattern == b.ScreenerPattern &&
		a.GeographyCount == b.GeographyCount && a.CategoryCount == b.CategoryCount
}

// DecodeRequirement parses a persisted requirement. Data that describes neither a catalog
// entry nor its detected form is rejected.
func DecodeRequirement(b []byte) (FlowRequirement, error) {
	var r FlowRequirement
	if err := json.Unmarshal(b, &r); err != nil {
		return FlowRequirement{}, NewInvalidError("malformed requirement: " + err.Error())
	}
	known, ok := RequirementByID(r.ID)
	if !ok {
		return FlowRequirement{}, NewInvalidError("unknown requirement id " + strconv.Itoa(r.ID))
	}
	if sameShape(known, r) {
		return known, nil
	}
	if detected := detectedRequirement(r.ID); sameShape(detected, r) {
		return detected, nil
	}
	return FlowRequirement{}, NewInvalidError("requirement " + strconv.Itoa(r.ID) + " does not match catalog")
}

func EncodeRequirement(r FlowRequirement) ([]byte, error) {
	return json.Marshal(r)
}
