package services

import (
	"net/url"
	"strings"
)

const (
	DefaultLinkHost = "survey.example.com"
	// IDPlaceholder is substituted by the panel provider with the respondent id.
	IDPlaceholder = "[id]"
)

// GenerateLiveLinks derives the live-link set for a flow. The result depends only on its arguments.
// For the geo-category pattern links follow the distinct (geography, category) pairs of configs
// in first-appearance order; pairs outside the current selections are skipped.
func GenerateLiveLinks(host string, pattern LinkPattern, geos []Geography, cats []Category, configs []PaymentConfig) []LiveLink {
	if host == "" {
		host = DefaultLinkHost
	}
	switch pattern {
	case LinkPatternGeo:
		links := make([]LiveLink, 0, len(geos))
		for _, g := range geos {
			links = append(links, LiveLink{
				ID:          "live-geo-" + g.ID,
				URL:         liveURL(host, pattern, &g, nil),
				Label:       "Survey Link for " + g.Name,
				GeographyID: g.ID,
			})
		}
		return links
	case LinkPatternCategory:
		links := make([]LiveLink, 0, len(cats))
		for _, c := range cats {
			links = append(links, LiveLink{
				ID:         "live-cat-" + c.ID,
				URL:        liveURL(host, pattern, nil, &c),
				Label:      "Survey Link for " + c.Name,
				CategoryID: c.ID,
			})
		}
		return links
	case LinkPatternGeoCategory:
		selGeo := map[string]Geography{}
		for _, g := range geos {
			selGeo[g.ID] = g
		}
		selCat := map[string]Category{}
		for _, c := range cats {
			selCat[c.ID] = c
		}
		seen := map[string]bool{}
		links := []LiveLink{}
		for _, pc := range configs {
			g, okG := selGeo[pc.Geography]
			c, okC := selCat[pc.Category]
			if !okG || !okC {
				continue
			}
			key := g.ID + "\x00" + c.ID
			if seen[key] {
				continue
			}
			seen[key] = true
			links = append(links, LiveLink{
				ID:          "live-geo-cat-" + g.ID + "-" + c.ID,
				URL:         liveURL(host, pattern, &g, &c),
				Label:       "Survey Link for " + g.Name + " - " + c.Name,
				GeographyID: g.ID,
				CategoryID:  c.ID,
			})
		}
		return links
	default:
		return []LiveLink{{
			ID:    "live-1",
			URL:   liveURL(host, LinkPatternSingle, nil, nil),
			Label: "Main Survey Link",
		}}
	}
}

// liveURL is assembled by hand so the [id] placeholder stays unescaped.
func liveURL(host string, pattern LinkPattern, g *Geography, c *Category) string {
	var b strings.Builder
	b.WriteString("https://")
	b.WriteString(host)
	b.WriteString("/live/")
	b.WriteString(string(pattern))
	if g != nil {
		b.WriteString("/" + url.PathEscape(strings.ToLower(g.Code)))
	}
	if c != nil {
		b.WriteString("/" + url.PathEscape(strings.ToLower(c.ID)))
	}
	b.WriteByte('?')
	if g != nil {
		b.WriteString("geo=" + url.QueryEscape(g.Code) + "&")
	}
	if c != nil {
		b.WriteString("cat=" + url.QueryEscape(c.ID) + "&")
	}
	b.WriteString("aqx_id=" + IDPlaceholder)
	return b.String()
}

// CopyAllText renders links as "label: url", one per line.
func CopyAllText(links []LiveLink) string {
	lines := make([]string, 0, len(links))
	for _, l := range links {
		lines = append(lines, l.Label+": "+l.URL)
	}
	return strings.Join(lines, "\n")
}
