package conversation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/longkey1/weatherbot/internal/weather"
	"github.com/longkey1/weatherbot/internal/weatherbot"
	"github.com/longkey1/weatherbot/internal/weatherbot/session"
)

type fakeModel struct {
	replies []*weatherbot.Reply
	err     error
	calls   [][]weatherbot.Message
	tools   [][]weatherbot.Tool
}

func (m *fakeModel) Complete(ctx context.Context, messages []weatherbot.Message, tools []weatherbot.Tool) (*weatherbot.Reply, error) {
	m.calls = append(m.calls, append([]weatherbot.Message(nil), messages...))
	m.tools = append(m.tools, tools)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.replies) == 0 {
		return &weatherbot.Reply{Content: "Happy to help!"}, nil
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return reply, nil
}

type fakeFetcher struct {
	report *weather.Report
	err    error
	calls  []string
}

func (f *fakeFetcher) Current(ctx context.Context, city string) (*weather.Report, error) {
	f.calls = append(f.calls, city)
	if f.err != nil {
		return nil, f.err
	}
	if f.report != nil {
		return f.report, nil
	}
	return &weather.Report{City: city, Kelvin: 285.45, Celsius: weather.KelvinToCelsius(285.45), Condition: "light rain"}, nil
}

type blockingReader struct{ release chan struct{} }

func (r *blockingReader) ReadLine() (string, error) {
	<-r.release
	return "", errors.New("released")
}

func (r *blockingReader) Close() error { return nil }

func newTestLoop(t *testing.T, model Model, fetcher Fetcher, modify func(*Options)) *Loop {
	t.Helper()
	opts := Options{
		Model:    model,
		Fetcher:  fetcher,
		Session:  session.NewSession("openai", "gpt-4o-mini"),
		Greeting: "Hello! Ask me about the weather.",
	}
	opts.Session.SystemPrompt = "You are a helpful weather assistant."
	if modify != nil {
		modify(&opts)
	}
	l, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l
}

func run(t *testing.T, l *Loop, input string) string {
	t.Helper()
	var out bytes.Buffer
	if err := l.Run(context.Background(), NewScannerReader(strings.NewReader(input), nil, ""), &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}

func roles(messages []weatherbot.Message) []string {
	r := make([]string, len(messages))
	for i, m := range messages {
		r[i] = m.Role
	}
	return r
}

func TestRunReportsCelsiusFromKelvin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"cod":200,"name":"Berlin","main":{"temp":285.45},"weather":[{"description":"light rain"}]}`)
	}))
	t.Cleanup(srv.Close)

	fetcher := weather.NewClient(weather.Options{BaseURL: srv.URL, Token: "owm"})
	model := &fakeModel{replies: []*weatherbot.Reply{{Content: "It's 12.3°C with light rain in Berlin."}}}
	l := newTestLoop(t, model, fetcher, nil)

	out := run(t, l, "What's the weather like in Berlin?\nquit\n")

	if !strings.Contains(out, "It's 12.3°C with light rain in Berlin.") {
		t.Errorf("output = %q, want the model reply", out)
	}
	if len(model.calls) != 1 {
		t.Fatalf("model calls = %d, want 1", len(model.calls))
	}
	sent := model.calls[0]
	last := sent[len(sent)-1]
	if last.Role != weatherbot.RoleSystem || !strings.Contains(last.Content, "Berlin: 12.3°C, light rain") {
		t.Errorf("context message = %+v, want Celsius report", last)
	}

	report, err := fetcher.Current(context.Background(), "Berlin")
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if math.Abs(report.Celsius-(285.45-273.15)) > 1e-9 {
		t.Errorf("Celsius = %v, want %v", report.Celsius, 285.45-273.15)
	}
}

func TestTurnHeuristic(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		fetchErr     error
		modelErr     error
		wantFetches  []string
		wantModel    int
		wantRoles    []string
		wantContains []string
		wantNoDigits bool
	}{
		{
			name:         "weather question",
			input:        "Is it raining in Paris?",
			wantFetches:  []string{"Paris"},
			wantModel:    1,
			wantRoles:    []string{"user", "system", "assistant"},
			wantContains: []string{"Happy to help!"},
		},
		{
			name:         "small talk skips the lookup",
			input:        "hello there",
			wantModel:    1,
			wantRoles:    []string{"user", "assistant"},
			wantContains: []string{"Happy to help!"},
		},
		{
			name:         "unknown city",
			input:        "weather in Atlantis",
			fetchErr:     fmt.Errorf("%w: Atlantis", weather.ErrCityNotFound),
			wantFetches:  []string{"Atlantis"},
			wantRoles:    []string{"user", "system", "assistant"},
			wantContains: []string{"Sorry", "Atlantis"},
			wantNoDigits: true,
		},
		{
			name:         "network failure",
			input:        "weather in Oslo",
			fetchErr:     fmt.Errorf("%w: dial tcp: connection refused", weather.ErrFetchFailed),
			wantFetches:  []string{"Oslo"},
			wantRoles:    []string{"user", "system", "assistant"},
			wantContains: []string{"couldn't fetch the weather"},
		},
		{
			name:         "model failure",
			input:        "weather in Rome",
			modelErr:     errors.New("openai completion: 500 internal error"),
			wantFetches:  []string{"Rome"},
			wantModel:    1,
			wantRoles:    []string{"user", "system", "assistant"},
			wantContains: []string{"couldn't reach the assistant service"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeModel{err: tt.modelErr}
			fetcher := &fakeFetcher{err: tt.fetchErr}
			l := newTestLoop(t, model, fetcher, nil)

			reply := l.Turn(context.Background(), tt.input)

			if strings.Join(fetcher.calls, ",") != strings.Join(tt.wantFetches, ",") {
				t.Errorf("fetches = %v, want %v", fetcher.calls, tt.wantFetches)
			}
			if len(model.calls) != tt.wantModel {
				t.Errorf("model calls = %d, want %d", len(model.calls), tt.wantModel)
			}
			if got := roles(l.Session().Messages); strings.Join(got, ",") != strings.Join(tt.wantRoles, ",") {
				t.Errorf("history roles = %v, want %v", got, tt.wantRoles)
			}
			if last := l.Session().Messages[len(l.Session().Messages)-1]; last.Content != reply {
				t.Errorf("last history entry = %q, want the reply %q", last.Content, reply)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(reply, want) {
					t.Errorf("reply = %q, want it to contain %q", reply, want)
				}
			}
			if tt.wantNoDigits && strings.ContainsAny(reply, "0123456789") {
				t.Errorf("reply = %q, want no temperature", reply)
			}
		})
	}
}

func TestRunHistoryAlternates(t *testing.T) {
	model := &fakeModel{}
	fetcher := &fakeFetcher{err: weather.ErrFetchFailed}
	l := newTestLoop(t, model, fetcher, nil)

	inputs := []string{"hello", "Berlin", "weather in Madrid", "thanks!"}
	run(t, l, strings.Join(inputs, "\n")+"\nexit\n")

	msgs := l.Session().Messages
	if len(msgs) < 2*len(inputs) {
		t.Fatalf("history = %d entries, want at least %d", len(msgs), 2*len(inputs))
	}

	var turns []weatherbot.Message
	for _, m := range msgs {
		if m.Role == weatherbot.RoleUser || m.Role == weatherbot.RoleAssistant {
			turns = append(turns, m)
		}
	}
	if len(turns) != 2*len(inputs) {
		t.Fatalf("user/assistant entries = %d, want %d", len(turns), 2*len(inputs))
	}
	for i, m := range turns {
		want := weatherbot.RoleUser
		if i%2 == 1 {
			want = weatherbot.RoleAssistant
		}
		if m.Role != want {
			t.Fatalf("entry %d role = %q, want %q", i, m.Role, want)
		}
		if want == weatherbot.RoleUser && m.Content != inputs[i/2] {
			t.Errorf("entry %d = %q, want %q", i, m.Content, inputs[i/2])
		}
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Timestamp.Before(msgs[i-1].Timestamp) {
			t.Errorf("entry %d is older than entry %d", i, i-1)
		}
	}
}

func TestRunExitKeywords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		keywords []string
	}{
		{name: "lower case", input: "quit\n"},
		{name: "upper case", input: "QUIT\nBerlin\n"},
		{name: "mixed case exit", input: "Exit\nweather in Paris\n"},
		{name: "surrounding spaces", input: "   quit  \n"},
		{name: "slash command", input: "/exit\nBerlin\n"},
		{name: "custom keyword", input: "Bye\nBerlin\n", keywords: []string{"bye"}},
		{name: "end of input", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeModel{}
			fetcher := &fakeFetcher{}
			l := newTestLoop(t, model, fetcher, func(o *Options) { o.ExitKeywords = tt.keywords })

			out := run(t, l, tt.input)

			if !strings.Contains(out, "Goodbye!") {
				t.Errorf("output = %q, want farewell", out)
			}
			if len(model.calls) != 0 || len(fetcher.calls) != 0 {
				t.Errorf("calls: model %d, fetcher %d; want none", len(model.calls), len(fetcher.calls))
			}
			if l.Session().MessageCount() != 0 {
				t.Errorf("history = %d entries, want none", l.Session().MessageCount())
			}
		})
	}
}

func TestRunSkipsEmptyLinesAndHandlesCommands(t *testing.T) {
	model := &fakeModel{}
	fetcher := &fakeFetcher{}
	l := newTestLoop(t, model, fetcher, nil)

	out := run(t, l, "\n   \nhello\n/history\n/reset\n/history\n/help\n/bogus\nquit\n")

	if len(model.calls) != 1 {
		t.Errorf("model calls = %d, want 1", len(model.calls))
	}
	for _, want := range []string{
		"Hello! Ask me about the weather.",
		"user      hello",
		"Conversation history cleared.",
		"No messages yet.",
		"Available commands:",
		"Unknown command: /bogus",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if l.Session().MessageCount() != 0 {
		t.Errorf("history = %d entries after /reset, want 0", l.Session().MessageCount())
	}
}

func TestTurnTool(t *testing.T) {
	call := weatherbot.ToolCall{ID: "call_1", Name: weatherToolName, Arguments: `{"location":"Paris, France"}`}

	tests := []struct {
		name         string
		replies      []*weatherbot.Reply
		fetchErr     error
		units        weather.Units
		wantFetches  []string
		wantModel    int
		wantRoles    []string
		wantReply    string
		wantToolText string
	}{
		{
			name:         "tool call",
			replies:      []*weatherbot.Reply{{ToolCalls: []weatherbot.ToolCall{call}}, {Content: "It's 12.3°C in Paris."}},
			wantFetches:  []string{"Paris, France"},
			wantModel:    2,
			wantRoles:    []string{"user", "assistant", "tool", "assistant"},
			wantReply:    "It's 12.3°C in Paris.",
			wantToolText: `"temperature":12.3`,
		},
		{
			name:         "imperial units",
			replies:      []*weatherbot.Reply{{ToolCalls: []weatherbot.ToolCall{call}}, {Content: "About 54°F."}},
			units:        weather.Imperial,
			wantFetches:  []string{"Paris, France"},
			wantModel:    2,
			wantRoles:    []string{"user", "assistant", "tool", "assistant"},
			wantReply:    "About 54°F.",
			wantToolText: `"units":"fahrenheit"`,
		},
		{
			name:      "no tool call",
			replies:   []*weatherbot.Reply{{Content: "Hi! Which city?"}},
			wantModel: 1,
			wantRoles: []string{"user", "assistant"},
			wantReply: "Hi! Which city?",
		},
		{
			name:         "unknown city",
			replies:      []*weatherbot.Reply{{ToolCalls: []weatherbot.ToolCall{call}}},
			fetchErr:     weather.ErrCityNotFound,
			wantFetches:  []string{"Paris, France"},
			wantModel:    1,
			wantRoles:    []string{"user", "assistant", "tool", "assistant"},
			wantReply:    `Sorry, I couldn't find a place called "Paris, France". Please check the spelling or try a nearby city.`,
			wantToolText: "city not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeModel{replies: tt.replies}
			fetcher := &fakeFetcher{err: tt.fetchErr}
			l := newTestLoop(t, model, fetcher, func(o *Options) {
				o.Mode = ModeTool
				o.Units = tt.units
			})

			reply := l.Turn(context.Background(), "What's it like in Paris?")

			if reply != tt.wantReply {
				t.Errorf("reply = %q, want %q", reply, tt.wantReply)
			}
			if strings.Join(fetcher.calls, "|") != strings.Join(tt.wantFetches, "|") {
				t.Errorf("fetches = %v, want %v", fetcher.calls, tt.wantFetches)
			}
			if len(model.calls) != tt.wantModel {
				t.Fatalf("model calls = %d, want %d", len(model.calls), tt.wantModel)
			}
			if len(model.tools[0]) != 1 || model.tools[0][0].Name != weatherToolName {
				t.Errorf("first call tools = %+v, want the weather tool", model.tools[0])
			}
			if tt.wantModel == 2 && model.tools[1] != nil {
				t.Errorf("second call tools = %+v, want none", model.tools[1])
			}
			msgs := l.Session().Messages
			if got := roles(msgs); strings.Join(got, ",") != strings.Join(tt.wantRoles, ",") {
				t.Errorf("history roles = %v, want %v", got, tt.wantRoles)
			}
			if tt.wantToolText != "" {
				tool := msgs[2]
				if tool.ToolCallID != "call_1" || !strings.Contains(tool.Content, tt.wantToolText) {
					t.Errorf("tool message = %+v, want it to contain %q", tool, tt.wantToolText)
				}
			}
		})
	}
}

func TestTurnToolBadArguments(t *testing.T) {
	model := &fakeModel{replies: []*weatherbot.Reply{{ToolCalls: []weatherbot.ToolCall{{ID: "c", Name: weatherToolName, Arguments: "not json"}}}}}
	fetcher := &fakeFetcher{err: weather.ErrCityNotFound}
	l := newTestLoop(t, model, fetcher, func(o *Options) { o.Mode = ModeTool })

	reply := l.Turn(context.Background(), "weather?")
	if !strings.Contains(reply, "couldn't tell which place") {
		t.Errorf("reply = %q", reply)
	}
}

func TestRunCanceled(t *testing.T) {
	l := newTestLoop(t, &fakeModel{}, &fakeFetcher{}, nil)
	reader := &blockingReader{release: make(chan struct{})}
	defer close(reader.release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if err := l.Run(ctx, reader, &out); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunOnTurnAndSpinner(t *testing.T) {
	var turns int
	var spin bytes.Buffer
	l := newTestLoop(t, &fakeModel{}, &fakeFetcher{}, func(o *Options) {
		o.OnTurn = func(s *session.Session) { turns++ }
		o.Spinner = &spin
	})

	run(t, l, "hello\nBerlin\nquit\n")

	if turns != 2 {
		t.Errorf("OnTurn calls = %d, want 2", turns)
	}
	if !strings.Contains(spin.String(), "\r\033[K") {
		t.Errorf("spinner output = %q, want the line to be cleared", spin.String())
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(Options{Fetcher: &fakeFetcher{}}); err == nil {
		t.Error("New() without model error = nil")
	}
	if _, err := New(Options{Model: &fakeModel{}}); err == nil {
		t.Error("New() without fetcher error = nil")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeHeuristic},
		{in: "heuristic", want: ModeHeuristic},
		{in: " TOOL ", want: ModeTool},
		{in: "llm", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
