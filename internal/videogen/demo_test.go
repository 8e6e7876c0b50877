package videogen

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoLibrary_PicksHighestSimilarityEntry(t *testing.T) {
	d := newDemoLibrary()

	// Shares six tokens with the WW2 entry and far fewer with the others.
	video, err := d.match(context.Background(), "What caused world war II in Singapore", 0)
	require.NoError(t, err)
	assert.Equal(t, "demo_videos/ww2_singapore.mp4", video.Video)
}

func TestDemoLibrary_FallsBackOnZeroSimilarity(t *testing.T) {
	d := newDemoLibrary()

	video, err := d.match(context.Background(), "xyzzy plugh quux", 0)
	require.NoError(t, err)
	assert.Equal(t, d.fallback, video.Video)
}

func TestDemoLibrary_PicksFromEntryCandidates(t *testing.T) {
	d := newDemoLibrary()

	// The 1980s entry has two candidate clips; any of them is a valid pick.
	video, err := d.match(context.Background(), "Life of a middle aged Singaporean male in the 1980s Singapore", 0)
	require.NoError(t, err)
	assert.Contains(t, []string{
		"demo_videos/heartland_1980s_a.mp4",
		"demo_videos/heartland_1980s_b.mp4",
	}, video.Video)
}

func TestDemoLibrary_DelayHonorsContext(t *testing.T) {
	d := newDemoLibrary()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.match(ctx, "anything", time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "lowercases and strips punctuation",
			input: "World War II, Singapore!",
			want:  []string{"world", "war", "ii", "singapore"},
		},
		{
			name:  "deduplicates",
			input: "singapore Singapore SINGAPORE",
			want:  []string{"singapore"},
		},
		{
			name:  "empty input",
			input: "   ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokens(tt.input)
			assert.Len(t, got, len(tt.want))
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestJaccard(t *testing.T) {
	set := func(words ...string) map[string]struct{} {
		m := make(map[string]struct{})
		for _, w := range words {
			m[w] = struct{}{}
		}
		return m
	}

	assert.Equal(t, 1.0, jaccard(set("a", "b"), set("a", "b")))
	assert.Equal(t, 0.0, jaccard(set("a"), set("b")))
	assert.Equal(t, 0.0, jaccard(set(), set()))
	assert.InDelta(t, 1.0/3.0, jaccard(set("a", "b"), set("b", "c")), 1e-9)
}
