// Package audit implements the append-only audit sink: timestamped lines
// in a log file, mirrored to the structured logger. Writes go through a
// single worker goroutine so request handlers never block on file I/O
// ordering.
package audit

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/medivault/clinical-portal/internal/core/domain"
)

const defaultBuffer = 256

type entry struct {
	ts    time.Time
	level domain.AuditLevel
	msg   string
}

// Sink implements ports.AuditSink.
type Sink struct {
	log       zerolog.Logger
	file      *os.File
	ch        chan entry
	done      chan struct{}
	wg        sync.WaitGroup
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewSink opens (or creates) the audit file in append mode and starts the
// writer goroutine. An empty path mirrors events to the logger only.
func NewSink(log zerolog.Logger, path string) (*Sink, error) {
	var file *os.File
	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("audit: open %s: %w", path, err)
		}
		file = f
	}

	s := &Sink{
		log:  log,
		file: file,
		ch:   make(chan entry, defaultBuffer),
		done: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run()
	return s, nil
}

// Record enqueues one audit event. Safe for concurrent use; events from a
// single goroutine are written in order. Calls after Close are dropped.
func (s *Sink) Record(message string, level domain.AuditLevel) {
	if s.closed.Load() {
		return
	}
	select {
	case s.ch <- entry{ts: time.Now().UTC(), level: level, msg: message}:
	case <-s.done:
	}
}

// Close drains pending events and closes the file.
func (s *Sink) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		s.wg.Wait()
		if s.file != nil {
			_ = s.file.Close()
		}
	})
}

func (s *Sink) run() {
	defer s.wg.Done()
	for {
		select {
		case e := <-s.ch:
			s.write(e)
		case <-s.done:
			for {
				select {
				case e := <-s.ch:
					s.write(e)
				default:
					return
				}
			}
		}
	}
}

func (s *Sink) write(e entry) {
	if s.file != nil {
		line := fmt.Sprintf("%s [%s] %s\n", e.ts.Format("2006-01-02 15:04:05 MST"), e.level, e.msg)
		if _, err := s.file.WriteString(line); err != nil {
			s.log.Error().Err(err).Msg("audit file write failed")
		}
	}

	ev := s.log.Info()
	switch e.level {
	case domain.AuditWarning:
		ev = s.log.Warn()
	case domain.AuditError:
		ev = s.log.Error()
	}
	ev.Str("audit", string(e.level)).Msg(e.msg)
}
