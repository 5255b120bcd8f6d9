package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
)

// TerminalChannel writes messages to a terminal, stripping the HTML tags
// used for Telegram formatting.
type TerminalChannel struct {
	out io.Writer
}

// NewTerminalChannel creates a channel that writes to stdout.
func NewTerminalChannel() *TerminalChannel {
	return &TerminalChannel{out: os.Stdout}
}

// Name returns the channel name.
func (t *TerminalChannel) Name() string {
	return "terminal"
}

// IsEnabled always reports true.
func (t *TerminalChannel) IsEnabled() bool {
	return true
}

var htmlTagPattern = regexp.MustCompile(`</?(b|i|code|pre)>`)

// Send prints the message with formatting tags removed.
func (t *TerminalChannel) Send(ctx context.Context, text string) error {
	_, err := fmt.Fprintln(t.out, htmlTagPattern.ReplaceAllString(text, ""))
	return err
}
