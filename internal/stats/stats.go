// Package stats derives renderable dashboard and analytics snapshots from
// raw backend payloads. Snapshots are immutable: every refresh builds a new
// one in full, nothing is patched in place.
package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/MalayathiGeetha/MailMind-AI/internal/log"
)

// NoData is the marker returned when a distribution is empty.
const NoData = "N/A"

// CategoryCount is one entry of a distribution.
type CategoryCount struct {
	Name  string
	Count int64
}

// Distribution is a category histogram sorted by descending count. Ties
// keep the order in which the backend's JSON object listed the categories;
// the contract defines no secondary ordering beyond that.
type Distribution []CategoryCount

// Top returns the leading category, or ok=false for an empty distribution.
func (d Distribution) Top() (CategoryCount, bool) {
	if len(d) == 0 {
		return CategoryCount{}, false
	}
	return d[0], true
}

// TopName returns the leading category name, or NoData when empty.
func (d Distribution) TopName() string {
	top, ok := d.Top()
	if !ok {
		return NoData
	}
	return top.Name
}

// Total sums all counts.
func (d Distribution) Total() int64 {
	var n int64
	for _, c := range d {
		n += c.Count
	}
	return n
}

// AnalyticsSnapshot is the derived, read-only analytics aggregation.
type AnalyticsSnapshot struct {
	TotalEmails        int64
	AverageEmailLength float64
	Tones              Distribution
	Intents            Distribution
}

// DashboardSnapshot is the derived, read-only user dashboard aggregation.
type DashboardSnapshot struct {
	Username            string
	TotalEmails         int64
	TotalWordsGenerated int64
	AvgEmailLength      float64
	TopTones            []string
	RecentEmails        []string
	PreferredProvider   string
}

// BuildAnalytics derives a snapshot from a raw analytics object. The raw
// bytes are used (rather than a decoded map) because Go maps lose the JSON
// key order that the tie-break rule depends on.
func BuildAnalytics(raw json.RawMessage) (AnalyticsSnapshot, error) {
	var fields struct {
		TotalEmails        int64           `json:"totalEmails"`
		AverageEmailLength float64         `json:"averageEmailLength"`
		ToneCounts         json.RawMessage `json:"toneCounts"`
		IntentCounts       json.RawMessage `json:"intentCounts"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return AnalyticsSnapshot{}, fmt.Errorf("decoding analytics: %w", err)
	}

	tones, err := decodeDistribution(fields.ToneCounts)
	if err != nil {
		return AnalyticsSnapshot{}, fmt.Errorf("decoding tone counts: %w", err)
	}
	intents, err := decodeDistribution(fields.IntentCounts)
	if err != nil {
		return AnalyticsSnapshot{}, fmt.Errorf("decoding intent counts: %w", err)
	}

	log.Debug(log.CatStats, "Analytics snapshot built",
		"totalEmails", fields.TotalEmails, "tones", len(tones), "intents", len(intents))

	return AnalyticsSnapshot{
		TotalEmails:        fields.TotalEmails,
		AverageEmailLength: fields.AverageEmailLength,
		Tones:              tones,
		Intents:            intents,
	}, nil
}

// BuildDashboard derives a snapshot from a raw dashboard object. Slices are
// never nil so views can range without guards.
func BuildDashboard(raw json.RawMessage) (DashboardSnapshot, error) {
	var fields struct {
		Username            string   `json:"username"`
		TotalEmails         int64    `json:"totalEmails"`
		TotalWordsGenerated int64    `json:"totalWordsGenerated"`
		AvgEmailLength      float64  `json:"avgEmailLength"`
		TopTones            []string `json:"topTones"`
		RecentEmails        []string `json:"recentEmails"`
		PreferredProvider   string   `json:"preferredProvider"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return DashboardSnapshot{}, fmt.Errorf("decoding dashboard: %w", err)
	}

	snap := DashboardSnapshot{
		Username:            fields.Username,
		TotalEmails:         fields.TotalEmails,
		TotalWordsGenerated: fields.TotalWordsGenerated,
		AvgEmailLength:      fields.AvgEmailLength,
		TopTones:            fields.TopTones,
		RecentEmails:        fields.RecentEmails,
		PreferredProvider:   fields.PreferredProvider,
	}
	if snap.TopTones == nil {
		snap.TopTones = []string{}
	}
	if snap.RecentEmails == nil {
		snap.RecentEmails = []string{}
	}
	return snap, nil
}

// decodeDistribution reads a {"CATEGORY": count, ...} object in document
// order and sorts it by descending count. The sort is stable, so equal
// counts keep the backend's ordering.
func decodeDistribution(raw json.RawMessage) (Distribution, error) {
	dist := Distribution{}
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return dist, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("counts payload is not an object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("counts key is not a string")
		}
		var count int64
		if err := dec.Decode(&count); err != nil {
			return nil, fmt.Errorf("count for %q is not a number: %w", key, err)
		}
		dist = append(dist, CategoryCount{Name: key, Count: count})
	}

	sort.SliceStable(dist, func(i, j int) bool {
		return dist[i].Count > dist[j].Count
	})
	return dist, nil
}
