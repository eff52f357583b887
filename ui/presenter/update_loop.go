package presenter

// Flusher repaints pending changes.
type Flusher interface {
	Flush()
}

// Loop drives periodic repaints on the UI thread.
//
// It flushes every registered presenter and invokes a scheduler callback
// that re-arms the next tick. The zero value is usable (methods are nil-safe).
type Loop struct {
	Presenters []Flusher
	Schedule   func()
	stopped    bool
}

func NewLoop(schedule func(), presenters ...Flusher) *Loop {
	return &Loop{Presenters: presenters, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil || l.stopped {
		return
	}
	for _, p := range l.Presenters {
		if p != nil {
			p.Flush()
		}
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}

// Stop prevents further ticks from flushing or rescheduling.
func (l *Loop) Stop() {
	if l != nil {
		l.stopped = true
	}
}
