package services

// Reference data. Selections copy these values; nothing mutates them.

var geographies = []Geography{
	{ID: "us", Name: "United States", Code: "US"},
	{ID: "uk", Name: "United Kingdom", Code: "UK"},
	{ID: "ca", Name: "Canada", Code: "CA"},
	{ID: "au", Name: "Australia", Code: "AU"},
	{ID: "de", Name: "Germany", Code: "DE"},
	{ID: "fr", Name: "France", Code: "FR"},
	{ID: "jp", Name: "Japan", Code: "JP"},
	{ID: "br", Name: "Brazil", Code: "BR"},
}

var categories = []Category{
	{ID: "tech", Name: "Technology", Department: "IT"},
	{ID: "marketing", Name: "Marketing", Department: "Marketing"},
	{ID: "sales", Name: "Sales", Department: "Sales"},
	{ID: "hr", Name: "Human Resources", Department: "HR"},
	{ID: "finance", Name: "Finance", Department: "Finance"},
	{ID: "operations", Name: "Operations", Department: "Operations"},
	{ID: "customer-service", Name: "Customer Service", Department: "Support"},
	{ID: "product", Name: "Product Management", Department: "Product"},
}

var participants = []Participant{
	{ID: "p1", Name: "John Smith", Geography: "us", Category: "marketing", Experience: "Advanced", Availability: "High"},
	{ID: "p2", Name: "Sarah Johnson", Geography: "uk", Category: "hr", Experience: "Expert", Availability: "Medium"},
	{ID: "p3", Name: "Mike Chen", Geography: "ca", Category: "marketing", Experience: "Intermediate", Availability: "High"},
	{ID: "p4", Name: "Emma Wilson", Geography: "us", Category: "hr", Experience: "Advanced", Availability: "High"},
	{ID: "p5", Name: "David Brown", Geography: "au", Category: "marketing", Experience: "Expert", Availability: "Low"},
	{ID: "p6", Name: "Lisa Garcia", Geography: "us", Category: "marketing", Experience: "Beginner", Availability: "High"},
	{ID: "p7", Name: "Tom Anderson", Geography: "uk", Category: "hr", Experience: "Intermediate", Availability: "Medium"},
	{ID: "p8", Name: "Anna Lee", Geography: "ca", Category: "marketing", Experience: "Advanced", Availability: "High"},
}

func Geographies() []Geography { return append([]Geography(nil), geographies...) }

func Categories() []Category { return append([]Category(nil), categories...) }

func Participants() []Participant { return append([]Participant(nil), participants...) }

func LookupGeography(id string) (Geography, bool) {
	for _, g := range geographies {
		if g.ID == id {
			return g, true
		}
	}
	return Geography{}, false
}

func LookupCategory(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// ResolveGeographies maps ids to fixtures, keeping order and rejecting unknown or repeated ids.
func ResolveGeographies(ids []string) ([]Geography, error) {
	out := make([]Geography, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		g, ok := LookupGeography(id)
		if !ok {
			return nil, NewInvalidError("unknown geography: " + id)
		}
		if seen[id] {
			return nil, NewInvalidError("duplicate geography: " + id)
		}
		seen[id] = true
		out = append(out, g)
	}
	return out, nil
}

func ResolveCategories(ids []string) ([]Category, error) {
	out := make([]Category, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		c, ok := LookupCategory(id)
		if !ok {
			return nil, NewInvalidError("unknown category: " + id)
		}
		if seen[id] {
			return nil, NewInvalidError("duplicate category: " + id)
		}
		seen[id] = true
		out = append(out, c)
	}
	return out, nil
}

// DefaultRedirectLinks returns the four fixed-purpose redirect links with empty URLs.
func DefaultRedirectLinks() []RedirectLink {
	return []RedirectLink{
		{ID: "1", Purpose: RedirectComplete, Label: "Complete Survey Link"},
		{ID: "2", Purpose: RedirectTerminate, Label: "Terminate Link"},
		{ID: "3", Purpose: RedirectOverQuota, Label: "Over Quota Link"},
		{ID: "4", Purpose: RedirectError, Label: "Error Link"},
	}
}
