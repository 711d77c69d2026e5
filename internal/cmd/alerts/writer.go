package alerts

import (
	"fmt"
	"io"
)

// Writer prints alerts to a destination.
type Writer struct {
	w        io.Writer
	useColor bool
}

// NewWriter creates a Writer. Colour is applied only when useColor is set;
// fatih/color additionally honours NO_COLOR and non-terminal stdout.
func NewWriter(w io.Writer, useColor bool) *Writer {
	return &Writer{w: w, useColor: useColor}
}

// Write prints one alert followed by its details.
func (aw *Writer) Write(alert *Alert) error {
	line := alert.String()
	if aw.useColor {
		line = alert.Level.Color().Sprint(line)
	}
	if _, err := fmt.Fprintln(aw.w, line); err != nil {
		return err
	}
	for _, detail := range alert.Details {
		if _, err := fmt.Fprintf(aw.w, "   %s\n", detail); err != nil {
			return err
		}
	}
	return nil
}

// WriteAll prints alerts in order, stopping at the first write error.
func (aw *Writer) WriteAll(alerts ...*Alert) error {
	for _, a := range alerts {
		if err := aw.Write(a); err != nil {
			return err
		}
	}
	return nil
}
