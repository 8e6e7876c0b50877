package videogen

import (
	"context"
	"math/rand"
	"strings"
	"time"
)

// demoEntry maps one known prompt to its pre-rendered candidate clips.
// Entry order matters: similarity ties resolve to the earliest entry.
type demoEntry struct {
	prompt string
	videos []string
}

type demoLibrary struct {
	entries  []demoEntry
	fallback string
}

func newDemoLibrary() *demoLibrary {
	return &demoLibrary{
		entries: []demoEntry{
			{
				prompt: "What lead to world war II and how was singapore involved? World War II was caused",
				videos: []string{"demo_videos/ww2_singapore.mp4"},
			},
			{
				prompt: "Life of a middle aged Singaporean male in the 1980s Singapore",
				videos: []string{
					"demo_videos/heartland_1980s_a.mp4",
					"demo_videos/heartland_1980s_b.mp4",
				},
			},
			{
				prompt: "How did Singapore become an independent nation in 1965",
				videos: []string{"demo_videos/independence_1965.mp4"},
			},
		},
		fallback: "demo_videos/merlion_default.mp4",
	}
}

// match picks the entry whose prompt has the highest token-set Jaccard
// similarity with the incoming prompt and returns one of its clips at random.
// Zero similarity everywhere falls back to the default clip. The delay mimics
// real render latency for the demo UI.
func (d *demoLibrary) match(ctx context.Context, prompt string, delay time.Duration) (Video, error) {
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return Video{}, ctx.Err()
		}
	}

	best := -1
	bestScore := 0.0
	in := tokens(prompt)
	for i, e := range d.entries {
		score := jaccard(in, tokens(e.prompt))
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 {
		return Video{Video: d.fallback}, nil
	}

	candidates := d.entries[best].videos
	return Video{Video: candidates[rand.Intn(len(candidates))]}, nil
}

// tokens lowercases s and splits it into a set of words with surrounding
// punctuation stripped.
func tokens(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,!?;:\"'")
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// jaccard is |a ∩ b| / |a ∪ b|, with empty-over-empty defined as zero.
func jaccard(a, b map[string]struct{}) float64 {
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
