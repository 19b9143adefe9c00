package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"

	"github.com/cognicore/macrowire/internal/textutil"
	"github.com/cognicore/macrowire/pkg/macrowire/classify"
	"github.com/cognicore/macrowire/pkg/macrowire/store"
)

const excerptRunes = 160

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeItem prints one item as a headline, its tags, and a plain-text excerpt.
func writeItem(w io.Writer, item store.Item, lang classify.Lang) {
	source := item.SourceName
	if source == "" {
		source = item.SourceID
	}
	fmt.Fprintf(w, "%s  [%s] %s\n", item.PublishedAt, source, textutil.PlainText(item.Title))

	res := classify.Classify(item)
	tags := lo.Map(res.Topics, func(t classify.TopicID, _ int) string {
		return t.LabelIn(lang)
	})
	tags = append(tags, res.EventType.LabelIn(lang))
	fmt.Fprintf(w, "    %s\n", strings.Join(tags, " · "))

	if summary := textutil.PlainText(item.Summary); summary != "" {
		fmt.Fprintf(w, "    %s\n", textutil.Truncate(summary, excerptRunes))
	}
	if item.URL != "" {
		fmt.Fprintf(w, "    %s\n", item.URL)
	}
}
