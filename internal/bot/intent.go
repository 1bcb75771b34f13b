package bot

import "strings"

// weatherPrefix is the exact, case-sensitive marker for weather queries:
// the word 天氣 followed by a space.
const weatherPrefix = "天氣 "

// IntentKind enumerates the closed set of recognized intents.
type IntentKind int

const (
	// IntentGeneral is a free-form question answered by the AI service.
	IntentGeneral IntentKind = iota
	// IntentWeather is a structured weather query for a location.
	IntentWeather
)

// Intent is the result of classifying an inbound message.
type Intent struct {
	Kind IntentKind

	// Location is the trimmed location argument for IntentWeather.
	// Empty means the user gave the prefix without a location.
	Location string

	// Text is the full original message for IntentGeneral.
	Text string
}

// Classify determines the intent of an inbound text message. Messages
// starting with the weather prefix become weather queries with the
// remainder (trimmed) as the location; everything else is a general query
// carrying the original text. There is no fuzzy matching.
func Classify(text string) Intent {
	if strings.HasPrefix(text, weatherPrefix) {
		location := strings.TrimSpace(strings.TrimPrefix(text, weatherPrefix))
		return Intent{Kind: IntentWeather, Location: location}
	}
	return Intent{Kind: IntentGeneral, Text: text}
}
