package core

import (
	log "github.com/sirupsen/logrus"
)

// releaseStack owns GPU objects in creation order and releases them
// in reverse. Components push a release function right after each
// successful creation, so a failure halfway through construction can
// unwind exactly what exists.
type releaseStack struct {
	entries []releaseEntry
	logger  *log.Entry
}

type releaseEntry struct {
	name    string
	release func()
}

func (s *releaseStack) push(name string, release func()) {
	s.entries = append(s.entries, releaseEntry{name: name, release: release})
}

// mark returns a position that unwindTo can return to.
func (s *releaseStack) mark() int {
	return len(s.entries)
}

// unwindTo releases every entry pushed after mark, newest first.
func (s *releaseStack) unwindTo(mark int) {
	for len(s.entries) > mark {
		last := s.entries[len(s.entries)-1]
		s.entries = s.entries[:len(s.entries)-1]
		if s.logger != nil {
			s.logger.WithField("object", last.name).Debug("releasing")
		}
		last.release()
	}
}

// Release implements gfx.Releasable
func (s *releaseStack) Release() {
	s.unwindTo(0)
}

func (s *releaseStack) len() int {
	return len(s.entries)
}
