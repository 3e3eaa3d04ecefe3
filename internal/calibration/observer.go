package calibration

// Observer receives structured progress events from an Engine run.
// The scoring functions themselves never log; callers that want
// visibility into a batch supply an observer instead.
type Observer interface {
	Observe(event string, fields map[string]float64)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(event string, fields map[string]float64)

// Observe implements Observer
func (f ObserverFunc) Observe(event string, fields map[string]float64) {
	f(event, fields)
}

type nopObserver struct{}

func (nopObserver) Observe(string, map[string]float64) {}

// NopObserver discards all events
var NopObserver Observer = nopObserver{}
