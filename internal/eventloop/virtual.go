package eventloop

import "time"

// VirtualScheduler is a manually advanced clock. Callbacks run synchronously inside
// Advance, in due-time order and FIFO for equal due times.
type VirtualScheduler struct {
	now    time.Duration
	seq    int
	timers []*virtualTimer
}

type virtualTimer struct {
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *virtualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func NewVirtualScheduler() *VirtualScheduler {
	return &VirtualScheduler{}
}

func (s *VirtualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.seq++
	t := &virtualTimer{at: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *VirtualScheduler) Now() time.Duration {
	return s.now
}

// Pending counts timers that have neither fired nor been stopped.
func (s *VirtualScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

func (s *VirtualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		s.now = next.at
		next.fired = true
		next.fn()
	}
	s.now = target
	s.compact()
}

func (s *VirtualScheduler) nextDue(target time.Duration) *virtualTimer {
	var next *virtualTimer
	for _, t := range s.timers {
		if t.fired || t.stopped || t.at > target {
			continue
		}
		if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (s *VirtualScheduler) compact() {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			live = append(live, t)
		}
	}
	s.timers = live
}
