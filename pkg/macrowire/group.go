package macrowire

import (
	"sort"

	"github.com/samber/lo"

	"github.com/cognicore/macrowire/pkg/macrowire/classify"
	"github.com/cognicore/macrowire/pkg/macrowire/config"
	"github.com/cognicore/macrowire/pkg/macrowire/store"
)

// SourceBucket holds the newest items of one source.
type SourceBucket struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Items  []store.Item `json:"items"`
	Latest string       `json:"latest"`
}

// TopicBucket holds the newest items of one topic.
type TopicBucket struct {
	ID     classify.TopicID `json:"id"`
	Label  string           `json:"label"`
	Items  []store.Item     `json:"items"`
	Latest string           `json:"latest"`
}

// SourceSummary is the item count of one source across the whole store.
type SourceSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type bucket[K comparable] struct {
	key    K
	first  store.Item
	items  []store.Item
	latest string
}

// bucketize walks items in order and files each under every key it maps
// to. The first item seen for a key opens its bucket and fixes latest;
// later items are appended only while the bucket is below limit. Buckets
// come back sorted by latest, newest first, ties in opening order.
func bucketize[K comparable](items []store.Item, limit int, keys func(store.Item) []K) []*bucket[K] {
	index := make(map[K]*bucket[K])
	var ordered []*bucket[K]

	for _, item := range items {
		for _, key := range keys(item) {
			b, ok := index[key]
			if !ok {
				b = &bucket[K]{key: key, first: item, items: []store.Item{item}, latest: item.PublishedAt}
				index[key] = b
				ordered = append(ordered, b)
				continue
			}
			if len(b.items) >= limit {
				continue
			}
			b.items = append(b.items, item)
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].latest > ordered[j].latest
	})
	return ordered
}

// GroupBySource buckets items by source id, at most limitPerSource items
// per source. items must already be newest first, as LoadNews returns them.
// limitPerSource <= 0 selects the default of 6.
func GroupBySource(items []store.Item, limitPerSource int) []SourceBucket {
	if limitPerSource <= 0 {
		limitPerSource = config.DefaultLimitPerSource
	}

	buckets := bucketize(items, limitPerSource, func(it store.Item) []string {
		return []string{it.SourceID}
	})

	return lo.Map(buckets, func(b *bucket[string], _ int) SourceBucket {
		name := b.first.SourceName
		if name == "" {
			name = b.key
		}
		return SourceBucket{ID: b.key, Name: name, Items: b.items, Latest: b.latest}
	})
}

// GroupByTopic classifies every item and buckets it under each of its
// topics, at most limitPerTopic items per topic. Topics without items are
// left out. limitPerTopic <= 0 selects the default of 10.
func GroupByTopic(items []store.Item, limitPerTopic int) []TopicBucket {
	if limitPerTopic <= 0 {
		limitPerTopic = config.DefaultLimitPerTopic
	}

	buckets := bucketize(items, limitPerTopic, classify.ClassifyTopics)

	return lo.Map(buckets, func(b *bucket[classify.TopicID], _ int) TopicBucket {
		return TopicBucket{ID: b.key, Label: b.key.Label(), Items: b.items, Latest: b.latest}
	})
}

// SummarizeSources counts all items per source id, most prolific first.
// The name is whatever the first item seen for the id carried.
func SummarizeSources(items []store.Item) []SourceSummary {
	index := make(map[string]int)
	out := []SourceSummary{}

	for _, item := range items {
		i, ok := index[item.SourceID]
		if !ok {
			i = len(out)
			index[item.SourceID] = i
			out = append(out, SourceSummary{ID: item.SourceID, Name: item.SourceName})
		}
		out[i].Count++
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
