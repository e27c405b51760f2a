package pipeline

import (
	"fmt"
	"time"
)

// DateLayout is the format of window bounds, for example 2023/10/22.
const DateLayout = "2006/01/02"

// Window is an inclusive range of publication dates.
type Window struct {
	Start string
	End   string
}

// NewWindow checks that both bounds are valid dates and start is not
// after end.
func NewWindow(start, end string) (Window, error) {
	res := Window{Start: start, End: end}
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return res, fmt.Errorf("cannot parse start date %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return res, fmt.Errorf("cannot parse end date %q: %w", end, err)
	}
	if s.After(e) {
		return res, fmt.Errorf("start date %s is after end date %s", start, end)
	}
	return res, nil
}

// LastDays returns the window [today-days, today].
func LastDays(today time.Time, days int) Window {
	return Window{
		Start: today.AddDate(0, 0, -days).Format(DateLayout),
		End:   today.Format(DateLayout),
	}
}

// PeriodsBack returns a window of periodLength days that ends
// periodLength*cyclesBack days before today.
func PeriodsBack(today time.Time, periodLength, cyclesBack int) Window {
	end := today.AddDate(0, 0, -periodLength*cyclesBack)
	start := end.AddDate(0, 0, -periodLength)
	return Window{
		Start: start.Format(DateLayout),
		End:   end.Format(DateLayout),
	}
}

// Key identifies the window of a target, for example to lock it.
func (w Window) Key(target string) string {
	return target + "|" + w.Start + "|" + w.End
}

func (w Window) String() string {
	return w.Start + "-" + w.End
}
