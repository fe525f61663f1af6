package classifier

import (
	"strings"

	"github.com/xaenox/bdc-edge/internal/models"
)

type Classifier interface {
	Classify(message string) models.Classification
}

// IntentGroup maps a set of substring markers to an intent
type IntentGroup struct {
	Intent  models.Intent
	Markers []string
}

var PositiveMarkers = []string{
	"great", "excellent", "wonderful", "amazing", "perfect", "love", "interested", "excited",
}

var NegativeMarkers = []string{
	"bad", "terrible", "awful", "hate", "disappointed", "frustrated", "angry", "not interested",
}

// IntentGroups are evaluated in order and the first group with a marker present wins.
var IntentGroups = []IntentGroup{
	{Intent: models.IntentAppointmentRequest, Markers: []string{"appointment", "schedule", "test drive"}},
	{Intent: models.IntentPriceInquiry, Markers: []string{"price", "cost", "how much"}},
	{Intent: models.IntentDisinterest, Markers: []string{"not interested", "no thanks", "not looking"}},
	{Intent: models.IntentFollowUp, Markers: []string{"follow up", "call back", "contact"}},
	{Intent: models.IntentComplaint, Markers: []string{"complaint", "problem", "issue"}},
}

// KeywordClassifier derives sentiment and intent from fixed marker tables
type KeywordClassifier struct {
	positive []string
	negative []string
	intents  []IntentGroup
}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		positive: PositiveMarkers,
		negative: NegativeMarkers,
		intents:  IntentGroups,
	}
}

// NewKeywordClassifierWithMarkers builds a classifier over custom tables, e.g. loaded from config
func NewKeywordClassifierWithMarkers(positive, negative []string, intents []IntentGroup) *KeywordClassifier {
	return &KeywordClassifier{
		positive: positive,
		negative: negative,
		intents:  intents,
	}
}

// Classify never fails; with no markers present it returns neutral/inquiry.
func (c *KeywordClassifier) Classify(message string) models.Classification {
	content := strings.ToLower(message)
	return models.Classification{
		Sentiment: c.sentiment(content),
		Intent:    c.intent(content),
	}
}

func (c *KeywordClassifier) sentiment(content string) models.Sentiment {
	positive := countMarkers(content, c.positive)
	negative := countMarkers(content, c.negative)

	switch {
	case positive > negative:
		return models.SentimentPositive
	case negative > positive:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func (c *KeywordClassifier) intent(content string) models.Intent {
	for _, group := range c.intents {
		if containsAny(content, group.Markers) {
			return group.Intent
		}
	}
	return models.IntentInquiry
}

// countMarkers counts distinct markers present, not occurrences
func countMarkers(content string, markers []string) int {
	count := 0
	for _, marker := range markers {
		if strings.Contains(content, marker) {
			count++
		}
	}
	return count
}

func containsAny(content string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}

var defaultClassifier = NewKeywordClassifier()

// Classify runs the default keyword tables over message
func Classify(message string) models.Classification {
	return defaultClassifier.Classify(message)
}
