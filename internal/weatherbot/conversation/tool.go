package conversation

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/longkey1/weatherbot/internal/weather"
	"github.com/longkey1/weatherbot/internal/weatherbot"
)

const weatherToolName = "get_current_weather"

var weatherTool = weatherbot.Tool{
	Name:        weatherToolName,
	Description: "Get the current weather for a location",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"location": map[string]any{
				"type":        "string",
				"description": "The city e.g. 'Berlin, Germany' or 'Barcelona, Spain'",
			},
		},
		"required": []string{"location"},
	},
}

type weatherArgs struct {
	Location string `json:"location"`
}

type weatherResult struct {
	Location    string  `json:"location"`
	Conditions  string  `json:"conditions,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	Units       string  `json:"units,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// runTool executes a tool call. It returns the tool message content and, when
// the lookup failed, the reply to give the user instead of asking the model again.
func (l *Loop) runTool(ctx context.Context, call weatherbot.ToolCall) (string, string) {
	if call.Name != weatherToolName {
		l.logger.Warn("model requested unknown tool", "tool", call.Name)
		return encodeResult(weatherResult{Error: "unknown tool " + call.Name}), ""
	}

	var args weatherArgs
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		l.logger.Warn("invalid tool arguments", "arguments", call.Arguments, "error", err)
	}
	city := strings.TrimSpace(args.Location)

	l.logger.Debug("weather lookup", "city", city, "tool_call", call.ID)
	report, err := l.fetcher.Current(ctx, city)
	if err != nil {
		l.logger.Warn("weather lookup failed", "city", city, "error", err)
		return encodeResult(weatherResult{Location: city, Error: err.Error()}), failureReply(city, err)
	}

	result := weatherResult{
		Location:    report.City,
		Conditions:  report.Condition,
		Temperature: round1(report.Celsius),
		Units:       "celsius",
	}
	if l.units == weather.Imperial {
		result.Temperature = round1(report.Fahrenheit())
		result.Units = "fahrenheit"
	}
	return encodeResult(result), ""
}

func encodeResult(r weatherResult) string {
	data, err := json.Marshal(r)
	if err != nil {
		return `{"error":"unencodable result"}`
	}
	return string(data)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
