package classify

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/tomakado/containers/set"

	"github.com/cognicore/macrowire/pkg/macrowire/internalerr"
	"github.com/cognicore/macrowire/pkg/macrowire/store"
)

// TopicID is a macro-finance subject tag. An item carries zero or more.
type TopicID string

const (
	RatesLiquidity   TopicID = "rates_liquidity"
	FXCrossBorder    TopicID = "fx_crossborder"
	MacroData        TopicID = "macro_data"
	Regulation       TopicID = "regulation"
	Fiscal           TopicID = "fiscal"
	StabilityRisk    TopicID = "stability_risk"
	RealEstateCredit TopicID = "real_estate_credit"
	TradeIndustry    TopicID = "trade_industry"
)

// Topics returns all topics in canonical order.
func Topics() []TopicID {
	return []TopicID{
		RatesLiquidity,
		FXCrossBorder,
		MacroData,
		Regulation,
		Fiscal,
		StabilityRisk,
		RealEstateCredit,
		TradeIndustry,
	}
}

// EventType describes the nature of an item. Every item gets exactly one.
type EventType string

const (
	EventPolicy     EventType = "policy"
	EventData       EventType = "data"
	EventRegulation EventType = "regulation"
	EventSpeech     EventType = "speech"
	EventOperations EventType = "operations"
	EventRisk       EventType = "risk"
)

// EventTypes returns all event types in display order.
func EventTypes() []EventType {
	return []EventType{EventPolicy, EventData, EventRegulation, EventSpeech, EventOperations, EventRisk}
}

// Lang selects a label table.
type Lang string

const (
	Chinese Lang = "zh"
	English Lang = "en"
)

var topicLabels = map[TopicID][2]string{
	RatesLiquidity:   {"利率/流动性", "Rates & Liquidity"},
	FXCrossBorder:    {"外汇/跨境", "FX & Cross-border"},
	MacroData:        {"宏观数据", "Macro Data"},
	Regulation:       {"监管/规则", "Regulation & Rules"},
	Fiscal:           {"财政/预算", "Fiscal & Budget"},
	StabilityRisk:    {"金融稳定/风险", "Financial Stability & Risk"},
	RealEstateCredit: {"地产/信用", "Real Estate & Credit"},
	TradeIndustry:    {"贸易/产业", "Trade & Industry"},
}

var eventLabels = map[EventType][2]string{
	EventPolicy:     {"政策", "Policy"},
	EventData:       {"数据", "Data"},
	EventRegulation: {"监管", "Regulation"},
	EventSpeech:     {"讲话", "Speech"},
	EventOperations: {"操作", "Operations"},
	EventRisk:       {"风险", "Risk"},
}

// Label returns the Chinese display label.
func (t TopicID) Label() string { return t.LabelIn(Chinese) }

// LabelIn returns the display label in lang. Unknown topics label as their id.
func (t TopicID) LabelIn(lang Lang) string {
	return pickLabel(topicLabels[t], string(t), lang)
}

// Label returns the Chinese display label.
func (e EventType) Label() string { return e.LabelIn(Chinese) }

// LabelIn returns the display label in lang. Unknown types label as their id.
func (e EventType) LabelIn(lang Lang) string {
	return pickLabel(eventLabels[e], string(e), lang)
}

func pickLabel(labels [2]string, fallback string, lang Lang) string {
	l := labels[0]
	if lang == English {
		l = labels[1]
	}
	if l == "" {
		return fallback
	}
	return l
}

// ParseTopic resolves a topic id, case-insensitively.
func ParseTopic(s string) (TopicID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range Topics() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown topic %q", internalerr.ErrInvalidInput, s)
}

// ParseEventType resolves an event type id, case-insensitively.
func ParseEventType(s string) (EventType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, e := range EventTypes() {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: unknown event type %q", internalerr.ErrInvalidInput, s)
}

// ParseLang resolves a label language; anything but "en" is Chinese.
func ParseLang(s string) Lang {
	if strings.EqualFold(strings.TrimSpace(s), string(English)) {
		return English
	}
	return Chinese
}

// text is the lowercased haystack: title, summary and content type joined
// by newlines so a needle cannot straddle two fields.
func text(item store.Item) string {
	return strings.ToLower(item.Title) + "\n" +
		strings.ToLower(item.Summary) + "\n" +
		strings.ToLower(item.ContentType)
}

func includesAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// ClassifyTopics returns the topics of item in canonical order.
// Source priors apply first, then every keyword set is tested independently.
func ClassifyTopics(item store.Item) []TopicID {
	sourceID := strings.ToLower(item.SourceID)
	haystack := text(item)

	var found []TopicID
	if lo.Contains(centralBankSources, sourceID) {
		found = append(found, RatesLiquidity)
	}
	if lo.Contains(fxSources, sourceID) {
		found = append(found, FXCrossBorder)
	}
	if lo.Contains(statisticsSources, sourceID) {
		found = append(found, MacroData)
	}

	for _, topic := range Topics() {
		if includesAny(haystack, topicKeywords[topic]) {
			found = append(found, topic)
		}
	}

	present := set.New(found...)
	return lo.Filter(Topics(), func(t TopicID, _ int) bool {
		return present.Contains(t)
	})
}

// ClassifyEventType returns the single event type of item. Rules are
// evaluated in a fixed order and the first match wins; policy is the default.
func ClassifyEventType(item store.Item) EventType {
	sourceID := strings.ToLower(item.SourceID)
	if lo.Contains(statisticsSources, sourceID) {
		return EventData
	}

	haystack := text(item)
	for _, rule := range eventRules {
		if includesAny(haystack, rule.needles) {
			return rule.event
		}
	}

	if lo.Contains(officialSources, sourceID) {
		return EventPolicy
	}
	return EventPolicy
}

// Result bundles both classifications of one item.
type Result struct {
	Topics    []TopicID `json:"topics"`
	EventType EventType `json:"event_type"`
}

// Classify runs both classifiers.
func Classify(item store.Item) Result {
	return Result{Topics: ClassifyTopics(item), EventType: ClassifyEventType(item)}
}
