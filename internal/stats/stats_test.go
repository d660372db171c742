package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAnalytics(t *testing.T) {
	raw := json.RawMessage(`{
		"totalEmails": 42,
		"averageEmailLength": 118.5,
		"toneCounts": {"FORMAL": 20, "FRIENDLY": 15, "HR": 7},
		"intentCounts": {"COMPLAINT": 30, "OTHER": 12}
	}`)

	snap, err := BuildAnalytics(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), snap.TotalEmails)
	assert.InDelta(t, 118.5, snap.AverageEmailLength, 0.001)
	assert.Equal(t, "FORMAL", snap.Tones.TopName())
	assert.Equal(t, "COMPLAINT", snap.Intents.TopName())
	assert.Equal(t, int64(42), snap.Tones.Total())
}

func TestDistribution_SortedDescending(t *testing.T) {
	raw := json.RawMessage(`{
		"totalEmails": 1,
		"toneCounts": {"HR": 2, "SALES": 9, "FORMAL": 5}
	}`)
	snap, err := BuildAnalytics(raw)
	require.NoError(t, err)

	require.Len(t, snap.Tones, 3)
	assert.Equal(t, CategoryCount{Name: "SALES", Count: 9}, snap.Tones[0])
	assert.Equal(t, CategoryCount{Name: "FORMAL", Count: 5}, snap.Tones[1])
	assert.Equal(t, CategoryCount{Name: "HR", Count: 2}, snap.Tones[2])
}

// Equal counts keep the order the backend's JSON listed the keys in.
func TestDistribution_TieKeepsDocumentOrder(t *testing.T) {
	raw := json.RawMessage(`{
		"totalEmails": 23,
		"toneCounts": {"FORMAL": 5, "FRIENDLY": 9, "HR": 9}
	}`)
	snap, err := BuildAnalytics(raw)
	require.NoError(t, err)

	require.Len(t, snap.Tones, 3)
	assert.Equal(t, "FRIENDLY", snap.Tones[0].Name, "first listed of the tied pair wins")
	assert.Equal(t, "HR", snap.Tones[1].Name)
	assert.Equal(t, "FORMAL", snap.Tones[2].Name)
	assert.Equal(t, "FRIENDLY", snap.Tones.TopName())
}

func TestDistribution_Empty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty object", raw: `{"totalEmails": 0, "toneCounts": {}}`},
		{name: "null counts", raw: `{"totalEmails": 0, "toneCounts": null}`},
		{name: "counts omitted", raw: `{"totalEmails": 0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := BuildAnalytics(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Empty(t, snap.Tones)
			assert.Equal(t, NoData, snap.Tones.TopName())
			_, ok := snap.Tones.Top()
			assert.False(t, ok)
		})
	}
}

func TestBuildAnalytics_BadPayloads(t *testing.T) {
	_, err := BuildAnalytics(json.RawMessage(`not json`))
	assert.Error(t, err)

	_, err = BuildAnalytics(json.RawMessage(`{"toneCounts": ["not","an","object"]}`))
	assert.Error(t, err)

	_, err = BuildAnalytics(json.RawMessage(`{"toneCounts": {"FORMAL": "five"}}`))
	assert.Error(t, err)
}

func TestBuildDashboard(t *testing.T) {
	raw := json.RawMessage(`{
		"username": "geetha",
		"totalEmails": 10,
		"totalWordsGenerated": 1200,
		"avgEmailLength": 120,
		"topTones": ["FORMAL", "HR"],
		"recentEmails": ["hello there"],
		"preferredProvider": "GEMINI"
	}`)

	snap, err := BuildDashboard(raw)
	require.NoError(t, err)
	assert.Equal(t, "geetha", snap.Username)
	assert.Equal(t, int64(1200), snap.TotalWordsGenerated)
	assert.Equal(t, []string{"FORMAL", "HR"}, snap.TopTones)
	assert.Equal(t, "GEMINI", snap.PreferredProvider)
}

func TestBuildDashboard_SlicesNeverNil(t *testing.T) {
	snap, err := BuildDashboard(json.RawMessage(`{"username": "u", "totalEmails": 0}`))
	require.NoError(t, err)
	assert.NotNil(t, snap.TopTones)
	assert.NotNil(t, snap.RecentEmails)
	assert.Empty(t, snap.TopTones)
}
