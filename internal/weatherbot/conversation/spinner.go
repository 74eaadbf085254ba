package conversation

import (
	"fmt"
	"io"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates on w while a model call is in flight
type spinner struct {
	w    io.Writer
	done chan struct{}
	exit chan struct{}
}

// startSpinner starts the animation. A nil writer yields a spinner that does nothing.
func startSpinner(w io.Writer) *spinner {
	s := &spinner{w: w}
	if w == nil {
		return s
	}
	s.done = make(chan struct{})
	s.exit = make(chan struct{})
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.exit)

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	i := 0
	for {
		fmt.Fprintf(s.w, "\r%s Checking...", spinnerFrames[i])
		i = (i + 1) % len(spinnerFrames)

		select {
		case <-s.done:
			// Clear the spinner line
			fmt.Fprint(s.w, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}

// Stop clears the spinner line and waits for the animation to finish.
func (s *spinner) Stop() {
	if s.done == nil {
		return
	}
	close(s.done)
	<-s.exit
}
