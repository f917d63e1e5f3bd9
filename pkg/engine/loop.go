package engine

// Scheduler runs fn once on the next frame
type Scheduler interface {
	RequestFrame(fn func())
}

// Loop is a play/stop state machine over a Scheduler. At most one frame is
// pending at any time, so stopping and restarting never forks the loop.
type Loop struct {
	scheduler Scheduler
	body      func()
	playing   bool
	pending   bool
	frames    uint64
}

// NewLoop starts playing immediately with one frame scheduled
func NewLoop(s Scheduler, body func()) *Loop {
	l := &Loop{scheduler: s, body: body, playing: true}
	l.schedule()
	return l
}

// Play resumes a stopped loop
func (l *Loop) Play() {
	if l.playing {
		return
	}
	l.playing = true
	l.schedule()
}

// Stop halts the loop after the current frame. A frame that is already
// scheduled still fires but does nothing.
func (l *Loop) Stop() {
	l.playing = false
}

// Toggle switches between playing and stopped
func (l *Loop) Toggle() {
	if l.playing {
		l.Stop()
	} else {
		l.Play()
	}
}

func (l *Loop) Playing() bool { return l.playing }
func (l *Loop) Pending() bool { return l.pending }

// Frames counts executed frame bodies
func (l *Loop) Frames() uint64 { return l.frames }

func (l *Loop) schedule() {
	if l.pending {
		return
	}
	l.pending = true
	l.scheduler.RequestFrame(l.tick)
}

func (l *Loop) tick() {
	l.pending = false
	if !l.playing {
		return
	}
	l.schedule()
	l.frames++
	l.body()
}

// FrameQueue is a Scheduler drained by the host loop once per iteration
type FrameQueue struct {
	queue []func()
}

func (q *FrameQueue) RequestFrame(fn func()) {
	q.queue = append(q.queue, fn)
}

// Flush runs the callbacks queued before the call. Callbacks requested while
// flushing wait for the next Flush.
func (q *FrameQueue) Flush() int {
	fns := q.queue
	q.queue = nil
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Len returns the number of queued callbacks
func (q *FrameQueue) Len() int {
	return len(q.queue)
}
