package services

import "strings"

// MatchParticipants returns the fixture participants fitting a live link's geography and category.
// A link without an association matches everyone on that axis.
func MatchParticipants(link LiveLink) []Participant {
	out := []Participant{}
	for _, p := range participants {
		if link.GeographyID != "" && p.Geography != link.GeographyID {
			continue
		}
		if link.CategoryID != "" && p.Category != link.CategoryID {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SelectionCriteria describes the targeting of a live link.
func SelectionCriteria(link LiveLink) string {
	parts := []string{}
	if g, ok := LookupGeography(link.GeographyID); ok {
		parts = append(parts, "Geography: "+g.Name)
	}
	if c, ok := LookupCategory(link.CategoryID); ok {
		parts = append(parts, "Category: "+c.Name)
	}
	if len(parts) == 0 {
		return "General criteria"
	}
	return strings.Join(parts, ", ")
}

// SyncSelections returns one selection per live link. Picks survive for link ids that still exist.
func SyncSelections(links []LiveLink, prev []ParticipantSelection) []ParticipantSelection {
	byLink := make(map[string]ParticipantSelection, len(prev))
	for _, s := range prev {
		byLink[s.LiveLinkID] = s
	}
	out := make([]ParticipantSelection, 0, len(links))
	for _, l := range links {
		sel := ParticipantSelection{LiveLinkID: l.ID, SelectedParticipants: []string{}}
		if old, ok := byLink[l.ID]; ok {
			sel.SelectedParticipants = append(sel.SelectedParticipants, old.SelectedParticipants...)
		}
		sel.Criteria = SelectionCriteria(l)
		out = append(out, sel)
	}
	return out
}

func toggleID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(append([]string{}, ids[:i]...), ids[i+1:]...)
		}
	}
	return append(append([]string{}, ids...), id)
}

// TotalSelected counts picks across all live links.
func TotalSelected(selections []ParticipantSelection) int {
	n := 0
	for _, s := range selections {
		n += len(s.SelectedParticipants)
	}
	return n
}
