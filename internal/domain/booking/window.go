package booking

import (
	"fmt"

	"github.com/BruksfildServices01/services-booking/internal/models"
)

// Window is the closed opening range of a service day, in minutes after
// midnight.
type Window struct {
	Open  int
	Close int
}

// WindowOf resolves the active window of svc for weekday. ok is false when
// the service has no active day with that name.
func WindowOf(svc *models.Service, weekday string) (Window, bool, error) {
	day, ok := svc.ActiveDay(weekday)
	if !ok {
		return Window{}, false, nil
	}

	open, err := ParseClock(day.OpeningTiming)
	if err != nil {
		return Window{}, false, fmt.Errorf("service %d %s opening: %w", svc.ID, weekday, err)
	}
	closing, err := ParseClock(day.CloseTiming)
	if err != nil {
		return Window{}, false, fmt.Errorf("service %d %s closing: %w", svc.ID, weekday, err)
	}
	if open >= closing {
		return Window{}, false, fmt.Errorf("service %d %s has an empty window", svc.ID, weekday)
	}

	return Window{Open: open, Close: closing}, true, nil
}

func (w Window) String() string {
	return FormatClock(w.Open) + " - " + FormatClock(w.Close)
}
