package internal

import "time"

// Inter-call delays. They throttle load on the target service and give its
// asynchronous indexing time to settle; they are not correctness-critical.
const (
	QuickDelay    = 500 * time.Millisecond
	StoreDelay    = 300 * time.Millisecond
	RetrieveDelay = 300 * time.Millisecond
	SettleDelay   = 2 * time.Second
	ResetDelay    = time.Second
)

// Pacer spaces out calls against the external services. Tests run with
// NopPacer so the orchestrator executes without delays.
type Pacer interface {
	Pause(d time.Duration)
}

type sleepPacer struct{}

func (sleepPacer) Pause(d time.Duration) { time.Sleep(d) }

// SleepPacer returns the production pacer backed by time.Sleep.
func SleepPacer() Pacer { return sleepPacer{} }

type nopPacer struct{}

func (nopPacer) Pause(time.Duration) {}

// NopPacer returns a pacer that never waits.
func NopPacer() Pacer { return nopPacer{} }
