package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/longkey1/weatherbot/internal/weatherbot"
	"github.com/longkey1/weatherbot/internal/weatherbot/config"
	"github.com/longkey1/weatherbot/internal/weatherbot/session"
	"github.com/spf13/cobra"
)

func TestMaskToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{token: "", want: "(not set)"},
		{token: "short", want: "********"},
		{token: "sk-1234567890abcd", want: "sk-1...abcd"},
	}

	for _, tt := range tests {
		if got := maskToken(tt.token); got != tt.want {
			t.Errorf("maskToken(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2025-03-14", want: time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)},
		{in: "2025-03", want: time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)},
		{in: "2025", want: time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)},
		{in: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("parseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfigField(t *testing.T) {
	cfg := config.NewDefaultConfig("/tmp/prompts")
	cfg.WeatherToken = "owm-0123456789"

	tests := []struct {
		field string
		want  string
		ok    bool
	}{
		{field: "model", want: "openai:gpt-4o-mini", ok: true},
		{field: "Weather_Token", want: "owm-...6789", ok: true},
		{field: "lookup_mode", want: "heuristic", ok: true},
		{field: "exit_keywords", want: "quit,exit", ok: true},
		{field: "save_transcripts", want: "false", ok: true},
		{field: "promptdirs", want: "/tmp/prompts", ok: true},
		{field: "gemini_token", ok: false},
	}

	for _, tt := range tests {
		got, ok := configField(cfg, tt.field)
		if ok != tt.ok || got != tt.want {
			t.Errorf("configField(%q) = %q, %v; want %q, %v", tt.field, got, ok, tt.want, tt.ok)
		}
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false},
	}

	for _, tt := range tests {
		cmd := &cobra.Command{}
		var out bytes.Buffer
		cmd.SetIn(strings.NewReader(tt.input))
		cmd.SetOut(&out)

		if got := confirm(cmd, "Delete?"); got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Delete? [y/N]") {
			t.Errorf("prompt = %q", out.String())
		}
	}
}

func TestPrintTranscript(t *testing.T) {
	sess := session.NewSession("openai", "gpt-4o-mini")
	sess.AddMessage(weatherbot.RoleUser, "Berlin")
	sess.AddMessage(weatherbot.RoleSystem, "Current weather data for Berlin: Berlin: 12.3°C, light rain")
	sess.AddMessage(weatherbot.RoleAssistant, "It's 12.3°C and raining lightly in Berlin.")

	var out bytes.Buffer
	printTranscript(&out, sess)

	for _, want := range []string{
		"Model: openai:gpt-4o-mini",
		"Messages: 3",
		"[1] You",
		"[2] Context",
		"[3] Chat Bot",
		"raining lightly",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}
