package source

import "sync"

// Share splits seq into n handles. Each handle reads from seq, and seq is
// closed when the last handle is closed. Closing a handle twice has no
// effect.
func Share(seq Sequence, n int) []Sequence {
	s := &shared{Sequence: seq, refs: n}

	handles := make([]Sequence, n)
	for i := range handles {
		handles[i] = &handle{shared: s}
	}

	return handles
}

type shared struct {
	Sequence

	mu   sync.Mutex
	refs int
}

func (s *shared) release() error {
	s.mu.Lock()
	s.refs--
	last := s.refs == 0
	s.mu.Unlock()

	if !last {
		return nil
	}

	return s.Sequence.Close() //nolint:wrapcheck // Sources wrap their own errors.
}

type handle struct {
	*shared

	once sync.Once
}

func (h *handle) Close() error {
	var err error

	h.once.Do(func() {
		err = h.release()
	})

	return err
}
