package animation

// Scheduler is a single periodic timer driven cooperatively by the render
// loop: the loop reports the current time through Poll and due callbacks run
// on the caller's goroutine. Times are in seconds.
type Scheduler struct {
	interval float64
	next     float64
	now      float64
	fn       func()
	active   bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Start subscribes fn to fire every interval seconds, first one interval
// after the last polled time. It returns false and changes nothing if a
// subscription is already active.
func (s *Scheduler) Start(interval float64, fn func()) bool {
	if s.active || interval <= 0 || fn == nil {
		return false
	}
	s.interval = interval
	s.fn = fn
	s.next = s.now + interval
	s.active = true
	return true
}

// Stop drops the subscription; no callback fires after Stop returns.
func (s *Scheduler) Stop() {
	s.active = false
	s.fn = nil
}

func (s *Scheduler) Active() bool { return s.active }

// Interval returns the period of the active subscription.
func (s *Scheduler) Interval() float64 { return s.interval }

// Poll advances the clock to now and fires the callback if it is due. A loop
// that falls behind gets one callback and the schedule is realigned to now
// instead of bursting to catch up. Poll reports whether the callback fired.
func (s *Scheduler) Poll(now float64) bool {
	s.now = now
	if !s.active || now < s.next {
		return false
	}
	fn := s.fn
	s.next += s.interval
	if s.next <= now {
		s.next = now + s.interval
	}
	fn()
	return true
}
