// Package intent guesses whether a line of user input asks about the weather
// somewhere, and if so which place. It is a best-effort text heuristic, not a
// classifier: ambiguous phrasing can misfire in either direction.
package intent

import (
	"regexp"
	"strings"
)

// place matches a location name: letters plus the separators that show up in
// names such as "St. John's", "Aix-en-Provence" or "Paris, FR".
const place = `([\p{L}][\p{L}\s'.,-]*)`

const weatherWords = `weather|temperature|temp|forecast|rain|raining|snow|snowing|sunny|cloudy|windy|stormy|foggy|cold|hot|warm|humid|degrees`

// patterns are tried in order; the first one that yields a usable place wins.
// Greedy variants pick the last preposition ("weather like today in Rome"),
// the lazy ones recover when the tail is only filler ("weather in Rome for tomorrow").
var patterns = []struct {
	re        *regexp.Regexp
	checkStop bool
}{
	{re: regexp.MustCompile(`(?i)\b(?:` + weatherWords + `)\b.*\b(?:in|at|for)\s+` + place)},
	{re: regexp.MustCompile(`(?i)\b(?:` + weatherWords + `)\b.*?\b(?:in|at|for)\s+` + place)},
	{re: regexp.MustCompile(`(?i)\bhow(?:'s|\s+is|\s+are)\s+(?:it|things|the\s+weather|the\s+skies)\s+(?:in|at|over)\s+` + place)},
	{re: regexp.MustCompile(`(?i)^\s*([\p{L}][\p{L}\s'.,-]*?)\s+(?:weather|temperature|forecast)\b`), checkStop: true},
}

var barePlace = regexp.MustCompile(`^[\p{L}][\p{L}\s'.,-]{0,60}$`)

// fillers are trailing words that qualify the question rather than name the place.
var fillers = []string{
	"right now", "at the moment", "this morning", "this afternoon", "this evening",
	"this week", "this weekend", "tonight", "today", "tomorrow", "now", "currently",
	"please", "like", "then", "for", "in", "at", "on", "of",
}

// notPlaces are captures that refer to the user's own surroundings.
var notPlaces = map[string]bool{
	"here": true, "there": true, "my area": true, "my city": true, "my town": true,
	"my location": true, "the area": true, "general": true, "the moment": true,
}

// stopWords rule a short input out as a bare place name.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "bye": true, "can": true, "could": true,
	"do": true, "does": true, "good": true, "goodbye": true, "hello": true, "help": true,
	"hey": true, "hi": true, "how": true, "i": true, "i'm": true, "is": true, "it": true,
	"it's": true, "me": true, "morning": true, "my": true, "no": true, "nope": true,
	"ok": true, "okay": true, "please": true, "sure": true, "thank": true, "thanks": true,
	"that": true, "the": true, "this": true, "to": true, "weather": true, "what": true,
	"what's": true, "whats": true, "when": true, "where": true, "who": true, "why": true,
	"yeah": true, "yes": true, "you": true, "your": true, "cool": true, "great": true,
	"nice": true, "test": true, "evening": true, "night": true, "tell": true,
}

// DetectCity returns the place the input asks about, or "" when the input does
// not look like a weather question.
func DetectCity(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	for _, p := range patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		city := clean(m[1])
		if city == "" {
			continue
		}
		if p.checkStop && hasStopWord(city) {
			continue
		}
		return city
	}

	return bareCity(text)
}

// bareCity accepts inputs that consist of nothing but a short place name,
// since users are invited to just type the city.
func bareCity(text string) string {
	text = strings.TrimRight(text, " ?!.")
	if !barePlace.MatchString(text) {
		return ""
	}
	words := strings.Fields(strings.ReplaceAll(text, ",", " "))
	if len(words) == 0 || len(words) > 3 {
		return ""
	}
	if hasStopWord(text) {
		return ""
	}
	return clean(text)
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	for {
		before := s
		s = strings.TrimRight(s, " ,.'-")
		lower := strings.ToLower(s)
		for _, f := range fillers {
			if lower == f {
				s = ""
				break
			}
			if strings.HasSuffix(lower, " "+f) {
				s = strings.TrimSpace(s[:len(s)-len(f)])
				break
			}
		}
		if s == before {
			break
		}
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "the ") {
		s = strings.TrimSpace(s[4:])
		lower = strings.ToLower(s)
	}
	if notPlaces[lower] {
		return ""
	}
	return s
}

func hasStopWord(s string) bool {
	for _, w := range strings.Fields(strings.ReplaceAll(s, ",", " ")) {
		if stopWords[strings.ToLower(strings.Trim(w, ".'-"))] {
			return true
		}
	}
	return false
}
