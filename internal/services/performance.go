package services

import (
	"hash/fnv"
	"math/rand/v2"
)

type LinkPerformance struct {
	LiveLinkID  string `json:"live_link_id"`
	Label       string `json:"label"`
	Clicks      int    `json:"clicks"`
	Completions int    `json:"completions"`
}

// Performance holds simulated post-activation figures. There is no real response feed.
type Performance struct {
	FlowID                string            `json:"flow_id"`
	Active                bool              `json:"active"`
	TotalResponses        int               `json:"total_responses"`
	CompletedResponses    int               `json:"completed_responses"`
	TerminatedResponses   int               `json:"terminated_responses"`
	OverQuotaResponses    int               `json:"over_quota_responses"`
	ConversionRate        string            `json:"conversion_rate"`
	AverageCompletionTime string            `json:"average_completion_time"`
	Links                 []LinkPerformance `json:"links"`
}

// SimulatePerformance returns the fixed headline numbers plus per-link figures seeded by the
// flow and link ids, so repeated calls agree.
func SimulatePerformance(f FlowState) Performance {
	p := Performance{
		FlowID:                f.ID,
		Active:                f.Status == FlowActive,
		TotalResponses:        1247,
		CompletedResponses:    892,
		TerminatedResponses:   201,
		OverQuotaResponses:    154,
		ConversionRate:        "71.5%",
		AverageCompletionTime: "8m 32s",
		Links:                 make([]LinkPerformance, 0, len(f.LiveLinks)),
	}
	for _, l := range f.LiveLinks {
		h := fnv.New64a()
		_, _ = h.Write([]byte(f.ID + "/" + l.ID))
		rng := rand.New(rand.NewPCG(h.Sum64(), 0x5eed))
		clicks := rng.IntN(500)
		completions := rng.IntN(300)
		if completions > clicks {
			completions = clicks
		}
		p.Links = append(p.Links, LinkPerformance{LiveLinkID: l.ID, Label: l.Label, Clicks: clicks, Completions: completions})
	}
	return p
}
