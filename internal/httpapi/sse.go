package httpapi

import (
	"strings"

	"github.com/clarifyhq/clarify-sdk-go/internal/event"
)

// frameBuilder reassembles text/event-stream frames from individual lines.
//
// A frame is a group of "field: value" lines terminated by a blank line. Only
// the event and data fields matter for this protocol; id and retry lines are
// ignored. Comment lines (leading ':') carry no data but still count as
// stream activity, which is why the reader resets its idle watchdog on every
// line rather than on every frame.
type frameBuilder struct {
	name string
	data []string
}

// feed consumes one line of the stream, without its trailing newline. It
// returns a complete frame and true when the line terminates a frame that
// carried data.
func (b *frameBuilder) feed(line string) (event.Frame, bool) {
	if line == "" {
		return b.flush()
	}

	if strings.HasPrefix(line, ":") {
		return event.Frame{}, false
	}

	field, value, _ := strings.Cut(line, ":")
	value = strings.TrimPrefix(value, " ")

	switch field {
	case "event":
		b.name = value
	case "data":
		b.data = append(b.data, value)
	}

	return event.Frame{}, false
}

// flush builds the pending frame and resets the builder. Frames that
// accumulated no data lines are dropped, matching EventSource behavior. An
// absent event field defaults to "message".
func (b *frameBuilder) flush() (event.Frame, bool) {
	name := b.name
	data := b.data
	b.name = ""
	b.data = nil

	if len(data) == 0 {
		return event.Frame{}, false
	}

	if name == "" {
		name = "message"
	}

	return event.Frame{
		Name: name,
		Data: []byte(strings.Join(data, "\n")),
	}, true
}
