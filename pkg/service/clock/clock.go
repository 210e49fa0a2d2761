package clock

import (
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/domain/types"
)

// DefaultTimeZone is the civil time zone all schedule computation uses
// unless overridden by configuration.
const DefaultTimeZone = "Asia/Manila"

// Clock converts between wall-clock times of day and absolute instants
// in a single fixed civil time zone. All schedule computation goes
// through here so changing the zone is a one-line config change.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

type Option func(*Clock)

// WithNow overrides the time source (for tests)
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		c.now = now
	}
}

func New(timezone string, opts ...Option) (*Clock, error) {
	if timezone == "" {
		timezone = DefaultTimeZone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load time zone", goerr.V("timezone", timezone))
	}

	c := &Clock{
		loc: loc,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

// NextOccurrence returns the next absolute instant at which the given
// wall-clock time of day occurs. A time strictly in the future today
// resolves to today; a time at or before the current instant rolls to
// tomorrow.
func (c *Clock) NextOccurrence(tod types.TimeOfDay) time.Time {
	now := c.Now()
	at := time.Date(now.Year(), now.Month(), now.Day(), tod.Hour, tod.Minute, 0, 0, c.loc)
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

// Until returns the duration from now to the given instant
func (c *Clock) Until(at time.Time) time.Duration {
	return at.Sub(c.Now())
}

// UntilText renders a duration as user-facing text such as
// "2hrs and 15mins" or "less than a minute".
func UntilText(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dhrs and %dmins", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dhrs", hours)
	case minutes > 0:
		return fmt.Sprintf("%dmins", minutes)
	default:
		return "less than a minute"
	}
}

// FormatDateTime renders an instant for history and notification
// records, e.g. "January 02, 2006 & 3:04PM".
func (c *Clock) FormatDateTime(at time.Time) string {
	return at.In(c.loc).Format("January 02, 2006 & 3:04PM")
}

// FormatDate renders the date part only
func (c *Clock) FormatDate(at time.Time) string {
	return at.In(c.loc).Format("January 02, 2006")
}

// FormatTime renders the clock part only
func (c *Clock) FormatTime(at time.Time) string {
	return at.In(c.loc).Format("3:04PM")
}
