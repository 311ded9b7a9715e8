// Package timefmt renders stored timestamps for people and for JSON
// payloads in a single configured location.
package timefmt

import "time"

type Kind int

const (
	// Readable looks like "02:30 PM Mon 04 Mar".
	Readable Kind = iota
	// JSON looks like "2024-03-04 14:30:00".
	JSON
)

const (
	readableLayout = "03:04 PM Mon 02 Jan"
	jsonLayout     = "2006-01-02 15:04:05"

	// FormLayout is the layout run times are entered with.
	FormLayout = "2006/01/02 15:04"
)

type Formatter struct {
	loc *time.Location
}

func New(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}

	return &Formatter{loc: loc}
}

func (f *Formatter) Location() *time.Location {
	return f.loc
}

func (f *Formatter) Format(t time.Time, kind Kind) string {
	local := t.In(f.loc)

	switch kind {
	case JSON:
		return local.Format(jsonLayout)
	default:
		return local.Format(readableLayout)
	}
}

func (f *Formatter) Readable(t time.Time) string {
	return f.Format(t, Readable)
}

func (f *Formatter) JSON(t time.Time) string {
	return f.Format(t, JSON)
}

// ParseForm reads a FormLayout value as wall clock time in the formatter's
// location.
func (f *Formatter) ParseForm(value string) (time.Time, error) {
	return time.ParseInLocation(FormLayout, value, f.loc)
}

// Now is the current instant in the formatter's location.
func (f *Formatter) Now() time.Time {
	return time.Now().In(f.loc)
}
