// Package dataset loads a query result file and reloads it when it changes.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/sview/internal/logger"
	"github.com/j-veylop/sview/internal/models"
)

// Event represents a dataset service event.
type Event struct {
	Type   EventType
	Error  error
	Result *models.QueryResult
}

// EventType defines the type of dataset event.
type EventType int

const (
	EventLoaded EventType = iota
	EventChanged
	EventError
)

const defaultDebounce = 100 * time.Millisecond

// Service holds the latest result read from a file and watches it.
type Service struct {
	mu            sync.RWMutex
	result        *models.QueryResult
	filePath      string
	debounce      time.Duration
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// New loads filePath and starts watching its directory. A non-positive
// debounce uses 100ms.
func New(filePath string, debounce time.Duration) (*Service, error) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	s := &Service{
		filePath:  filePath,
		debounce:  debounce,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	s.sendEvent(Event{Type: EventLoaded, Result: s.Result()})

	return s, nil
}

// Load reads and decodes a query result file.
func Load(path string) (*models.QueryResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var result models.QueryResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if result.Rows == nil {
		result.Rows = make([][]any, 0)
	}
	result.Kind = models.SourceJSON
	result.Origin = path
	result.LoadedAt = time.Now()
	return &result, nil
}

// Events returns the event channel for subscribing to dataset changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Result returns the most recently loaded result.
func (s *Service) Result() *models.QueryResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Path returns the watched file path.
func (s *Service) Path() string {
	return s.filePath
}

// Reload reads the file again and emits EventChanged or EventError.
func (s *Service) Reload() {
	s.handleFileChange()
}

func (s *Service) load() error {
	result, err := Load(s.filePath)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.result = result
	s.mu.Unlock()
	return nil
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory so editors that replace the file are seen
	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

func (s *Service) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.mu.Lock()
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(s.debounce, s.handleFileChange)
				s.mu.Unlock()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) handleFileChange() {
	if err := s.load(); err != nil {
		logger.Warn("failed to reload dataset", "path", s.filePath, "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}
	result := s.Result()
	logger.Debug("dataset reloaded", "path", s.filePath, "rows", result.RowCount())
	s.sendEvent(Event{Type: EventChanged, Result: result})
}

func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)

	s.mu.Lock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.mu.Unlock()

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
