package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		debug    bool
		wantText []string
		wantNone bool
	}{
		{name: "text info", wantText: []string{"hello", "city=Berlin"}},
		{name: "debug filtered by default", debug: true, wantNone: true},
		{name: "debug enabled", opts: []Option{WithDebug(true)}, debug: true, wantText: []string{"hello", "Berlin"}},
		{name: "debug disabled explicitly", opts: []Option{WithDebug(false)}, debug: true, wantNone: true},
		{name: "pretty", opts: []Option{WithPretty(true)}, wantText: []string{"hello", "Berlin"}},
		{name: "pretty debug", opts: []Option{WithPretty(true), WithDebug(true)}, debug: true, wantText: []string{"hello"}},
		{name: "pretty filters debug", opts: []Option{WithPretty(true)}, debug: true, wantNone: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(append(tt.opts, WithWriter(&buf))...)
			if tt.debug {
				l.Debug("hello", "city", "Berlin")
			} else {
				l.Info("hello", "city", "Berlin")
			}

			out := buf.String()
			if tt.wantNone {
				if out != "" {
					t.Errorf("output = %q, want empty", out)
				}
				return
			}
			for _, want := range tt.wantText {
				if !strings.Contains(out, want) {
					t.Errorf("output = %q, want it to contain %q", out, want)
				}
			}
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(WithWriter(&buf), WithJSON(true))
	l.Info("lookup", "city", "Paris", "celsius", 9.5)

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if parsed["msg"] != "lookup" || parsed["city"] != "Paris" || parsed["celsius"] != 9.5 {
		t.Errorf("parsed = %v", parsed)
	}
}

func TestNewWriters(t *testing.T) {
	var a, b bytes.Buffer
	l := New(WithWriters(&a, &b))
	l.Info("fan out")

	if !strings.Contains(a.String(), "fan out") || !strings.Contains(b.String(), "fan out") {
		t.Errorf("outputs = %q, %q; want both to contain the record", a.String(), b.String())
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing happens")
	if l.Enabled(t.Context(), 0) {
		t.Error("Nop logger should not be enabled")
	}
}
