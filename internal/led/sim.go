package led

import "sync"

// Sim records frames in memory.
type Sim struct {
	mu     sync.Mutex
	frames [][FrameSize]byte
	writes int
	closed bool

	// Err, when set, is returned once FailAfter frames have been accepted.
	Err       error
	FailAfter int
	// Keep bounds retained frames; zero keeps everything.
	Keep int
}

func NewSim() *Sim { return &Sim{Keep: 360} }

func (s *Sim) Write(grb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := checkFrame(grb); err != nil {
		return err
	}
	if s.Err != nil && s.writes >= s.FailAfter {
		return s.Err
	}
	s.writes++
	var f [FrameSize]byte
	copy(f[:], grb)
	s.frames = append(s.frames, f)
	if s.Keep > 0 && len(s.frames) > s.Keep {
		s.frames = append(s.frames[:0], s.frames[len(s.frames)-s.Keep:]...)
	}
	return nil
}

// Frames returns a copy of the retained frames, oldest first.
func (s *Sim) Frames() [][FrameSize]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][FrameSize]byte(nil), s.frames...)
}

// Writes counts accepted frames, including ones no longer retained.
func (s *Sim) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *Sim) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
