// Package conversation runs the interactive weather chat: it reads user lines,
// looks up the weather when a question calls for it, asks the language model
// for a reply and keeps the history of the exchange.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/longkey1/weatherbot/internal/logger"
	"github.com/longkey1/weatherbot/internal/weather"
	"github.com/longkey1/weatherbot/internal/weatherbot"
	"github.com/longkey1/weatherbot/internal/weatherbot/intent"
	"github.com/longkey1/weatherbot/internal/weatherbot/session"
)

// Mode selects how the loop decides that a weather lookup is needed.
type Mode string

const (
	// ModeHeuristic looks for a city in the user's text before calling the model.
	ModeHeuristic Mode = "heuristic"
	// ModeTool offers the model a weather tool and lets it request lookups.
	ModeTool Mode = "tool"
)

// ParseMode parses a lookup mode setting. An empty value means ModeHeuristic.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeHeuristic:
		return ModeHeuristic, nil
	case ModeTool:
		return ModeTool, nil
	default:
		return "", fmt.Errorf("unsupported lookup mode: %s (expected %s or %s)", s, ModeHeuristic, ModeTool)
	}
}

// Model produces the assistant's next message for a conversation.
type Model interface {
	Complete(ctx context.Context, messages []weatherbot.Message, tools []weatherbot.Tool) (*weatherbot.Reply, error)
}

// Fetcher looks up the current weather for a city.
type Fetcher interface {
	Current(ctx context.Context, city string) (*weather.Report, error)
}

const farewell = "Goodbye!"

// Options configures a Loop.
type Options struct {
	Model   Model
	Fetcher Fetcher
	Session *session.Session // history; a fresh one is created when nil

	Greeting     string
	Mode         Mode
	Units        weather.Units
	ExitKeywords []string // matched case-insensitively; defaults to quit and exit

	// Detect extracts a city from user input in heuristic mode. Defaults to intent.DetectCity.
	Detect func(string) string
	// OnTurn runs after every completed turn, e.g. to persist the transcript.
	OnTurn func(*session.Session)
	// Spinner receives a progress animation while the model is working. Nil disables it.
	Spinner io.Writer
	Logger  *slog.Logger
}

// Loop is a single conversation. It is not safe for concurrent use.
type Loop struct {
	model    Model
	fetcher  Fetcher
	sess     *session.Session
	greeting string
	mode     Mode
	units    weather.Units
	exits    []string
	detect   func(string) string
	onTurn   func(*session.Session)
	spinner  io.Writer
	logger   *slog.Logger
}

// New creates a Loop from opts.
func New(opts Options) (*Loop, error) {
	if opts.Model == nil {
		return nil, errors.New("conversation: model is required")
	}
	if opts.Fetcher == nil {
		return nil, errors.New("conversation: weather fetcher is required")
	}

	l := &Loop{
		model:    opts.Model,
		fetcher:  opts.Fetcher,
		sess:     opts.Session,
		greeting: opts.Greeting,
		mode:     opts.Mode,
		units:    opts.Units,
		exits:    opts.ExitKeywords,
		detect:   opts.Detect,
		onTurn:   opts.OnTurn,
		spinner:  opts.Spinner,
		logger:   opts.Logger,
	}
	if l.sess == nil {
		l.sess = session.NewSession("", "")
	}
	if l.mode == "" {
		l.mode = ModeHeuristic
	}
	if l.units == "" {
		l.units = weather.Metric
	}
	if len(l.exits) == 0 {
		l.exits = []string{"quit", "exit"}
	}
	if l.detect == nil {
		l.detect = intent.DetectCity
	}
	if l.logger == nil {
		l.logger = logger.Nop()
	}
	return l, nil
}

// Session returns the conversation history.
func (l *Loop) Session() *session.Session {
	return l.sess
}

// Run greets the user and answers lines from in until an exit keyword, end of
// input or cancellation of ctx. Replies are written to out.
func (l *Loop) Run(ctx context.Context, in LineReader, out io.Writer) error {
	if l.greeting != "" {
		fmt.Fprintf(out, "%s %s\n", BotLabel, l.greeting)
	}

	for {
		line, err := readLine(ctx, in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintf(out, "\n%s %s\n", BotLabel, farewell)
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("reading input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if l.isExit(input) {
			fmt.Fprintf(out, "%s %s\n", BotLabel, farewell)
			return nil
		}

		if strings.HasPrefix(input, "/") {
			if !l.handleCommand(input, out) {
				fmt.Fprintf(out, "%s %s\n", BotLabel, farewell)
				return nil
			}
			continue
		}

		reply := l.Turn(ctx, input)
		fmt.Fprintf(out, "%s %s\n", BotLabel, reply)

		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// Turn answers a single user input and returns the reply. The history gains the
// user message, any lookup context and exactly one final assistant message.
func (l *Loop) Turn(ctx context.Context, input string) string {
	l.sess.AddMessage(weatherbot.RoleUser, input)

	var reply string
	switch l.mode {
	case ModeTool:
		reply = l.toolTurn(ctx)
	default:
		reply = l.heuristicTurn(ctx, input)
	}

	l.sess.AddMessage(weatherbot.RoleAssistant, reply)
	if l.onTurn != nil {
		l.onTurn(l.sess)
	}
	return reply
}

func (l *Loop) heuristicTurn(ctx context.Context, input string) string {
	if city := l.detect(input); city != "" {
		l.logger.Debug("weather lookup", "city", city)

		report, err := l.fetcher.Current(ctx, city)
		if err != nil {
			l.logger.Warn("weather lookup failed", "city", city, "error", err)
			l.sess.AddMessage(weatherbot.RoleSystem, failureContext(city, err))
			return failureReply(city, err)
		}

		l.logger.Debug("weather lookup succeeded", "city", report.City, "celsius", report.Celsius, "condition", report.Condition)
		l.sess.AddMessage(weatherbot.RoleSystem, reportContext(report, l.units))
	}

	reply, err := l.complete(ctx, nil)
	if err != nil {
		return modelFailureReply
	}
	return reply.Content
}

func (l *Loop) toolTurn(ctx context.Context) string {
	reply, err := l.complete(ctx, []weatherbot.Tool{weatherTool})
	if err != nil {
		return modelFailureReply
	}
	if len(reply.ToolCalls) == 0 {
		return reply.Content
	}

	l.sess.Append(weatherbot.Message{
		Role:      weatherbot.RoleAssistant,
		Content:   reply.Content,
		ToolCalls: reply.ToolCalls,
	})

	var failed string
	for _, call := range reply.ToolCalls {
		content, failure := l.runTool(ctx, call)
		l.sess.Append(weatherbot.Message{
			Role:       weatherbot.RoleTool,
			Content:    content,
			ToolCallID: call.ID,
		})
		if failed == "" {
			failed = failure
		}
	}
	if failed != "" {
		return failed
	}

	final, err := l.complete(ctx, nil)
	if err != nil {
		return modelFailureReply
	}
	return final.Content
}

// complete sends the full history to the model.
func (l *Loop) complete(ctx context.Context, tools []weatherbot.Tool) (*weatherbot.Reply, error) {
	spin := startSpinner(l.spinner)
	reply, err := l.model.Complete(ctx, l.sess.History(), tools)
	spin.Stop()

	if err != nil {
		l.logger.Warn("language model call failed", "error", err)
		return nil, err
	}
	return reply, nil
}

func (l *Loop) isExit(input string) bool {
	for _, kw := range l.exits {
		if strings.EqualFold(input, strings.TrimSpace(kw)) {
			return true
		}
	}
	return false
}

// readLine reads from in without blocking past cancellation of ctx.
func readLine(ctx context.Context, in LineReader) (string, error) {
	type result struct {
		line string
		err  error
	}

	ch := make(chan result, 1)
	go func() {
		line, err := in.ReadLine()
		ch <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.line, r.err
	}
}
