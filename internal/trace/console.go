// Package trace renders clock events as the console trace.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/gardiner/stepsequencer/internal/clock"
)

// Console writes one trace token per event and flushes after every event,
// so pulse dots show up in real time before the line ends.
type Console struct {
	w *bufio.Writer
}

// NewConsole returns a sink writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: bufio.NewWriter(w)}
}

// Emit renders ev:
//
//	START   -> "GO\n"
//	STOP    -> "STOP\n"
//	PULSE   -> "."
//	BEAT n  -> "BEAT n\n"
//	UNKNOWN -> "<byte> "
func (c *Console) Emit(ev clock.Event) error {
	var err error
	switch ev.Kind {
	case clock.EventStart:
		_, err = c.w.WriteString("GO\n")
	case clock.EventStop:
		_, err = c.w.WriteString("STOP\n")
	case clock.EventPulse:
		err = c.w.WriteByte('.')
	case clock.EventBeat:
		_, err = fmt.Fprintf(c.w, "BEAT %d\n", ev.Value)
	case clock.EventUnknown:
		_, err = c.w.WriteString(strconv.Itoa(ev.Value) + " ")
	default:
		return fmt.Errorf("unknown event kind %d", int(ev.Kind))
	}
	if err != nil {
		return err
	}
	return c.w.Flush()
}
