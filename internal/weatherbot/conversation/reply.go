package conversation

import (
	"errors"
	"fmt"

	"github.com/longkey1/weatherbot/internal/weather"
)

const modelFailureReply = "Sorry, I couldn't reach the assistant service right now. Please try again in a moment."

// failureReply is the reply for a failed lookup; the model is not consulted.
// It never contains a temperature.
func failureReply(city string, err error) string {
	switch {
	case city == "":
		return "Sorry, I couldn't tell which place you meant. Try a city name like Berlin."
	case errors.Is(err, weather.ErrCityNotFound):
		return fmt.Sprintf("Sorry, I couldn't find a place called %q. Please check the spelling or try a nearby city.", city)
	default:
		return fmt.Sprintf("Sorry, I couldn't fetch the weather for %s right now. Please try again in a moment.", city)
	}
}

// failureContext records a failed lookup in the history.
func failureContext(city string, err error) string {
	if errors.Is(err, weather.ErrCityNotFound) {
		return fmt.Sprintf("Weather lookup for %q failed: the city was not found.", city)
	}
	return fmt.Sprintf("Weather lookup for %q failed: the weather service could not be reached.", city)
}

// reportContext records a successful lookup in the history.
func reportContext(r *weather.Report, units weather.Units) string {
	return fmt.Sprintf("Current weather data for %s (use it to answer the user): %s", r.City, r.Format(units))
}
