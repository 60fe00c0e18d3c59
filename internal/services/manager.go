// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/sview/internal/chart"
	"github.com/j-veylop/sview/internal/config"
	"github.com/j-veylop/sview/internal/db"
	"github.com/j-veylop/sview/internal/logger"
	"github.com/j-veylop/sview/internal/models"
	"github.com/j-veylop/sview/internal/services/dataset"
)

type (
	// ResultLoadedEvent is emitted when a query result was loaded or reloaded.
	ResultLoadedEvent struct {
		Result *models.QueryResult
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}

	// AlertEvent is emitted when the latest value of a series crosses the
	// configured threshold.
	AlertEvent struct {
		Key       string
		Value     float64
		Threshold float64
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (ResultLoadedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()        {}
func (AlertEvent) isServiceEvent()        {}

const queryTimeout = 30 * time.Second

// Manager owns the row source and routes its events to subscribers.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	dataset     *dataset.Service
	database    *db.DB
	current     *models.QueryResult
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	alerted     map[string]bool
	notify      func(title, body string) error
}

// NewManager opens the configured source and loads the first result.
func NewManager(cfg *config.Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:       cfg,
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
		alerted:   make(map[string]bool),
		notify: func(title, body string) error {
			return beeep.Notify(title, body, "")
		},
	}

	var err error
	switch {
	case cfg.SourcePath != "":
		m.dataset, err = dataset.New(cfg.SourcePath, cfg.WatchDebounce)
		if err != nil {
			return nil, err
		}
		m.current = m.dataset.Result()

	default:
		m.database, err = db.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		m.current, err = m.query()
		if err != nil {
			_ = m.database.Close()
			return nil, err
		}
	}
	m.checkAlerts(m.current)

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from the dataset service to subscribers.
func (m *Manager) routeEvents() {
	var events <-chan dataset.Event
	if m.dataset != nil {
		events = m.dataset.Events()
	}
	for {
		select {
		case event := <-events:
			m.handleDatasetEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handleDatasetEvent converts and broadcasts dataset events.
func (m *Manager) handleDatasetEvent(event dataset.Event) {
	switch event.Type {
	case dataset.EventLoaded:
		// The initial load is already current.

	case dataset.EventChanged:
		m.setCurrent(event.Result)

	case dataset.EventError:
		m.broadcast(ErrorEvent{Service: "dataset", Error: event.Error})
	}
}

func (m *Manager) setCurrent(result *models.QueryResult) {
	m.mu.Lock()
	m.current = result
	m.mu.Unlock()

	logger.Info("query result loaded", "origin", result.Origin, "rows", result.RowCount())
	m.broadcast(ResultLoadedEvent{Result: result})
	m.checkAlerts(result)
}

func (m *Manager) query() (*models.QueryResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	return m.database.Query(ctx, m.cfg.SQLiteQuery)
}

// Reload reads the source again in the background. The outcome arrives as
// a ResultLoadedEvent or an ErrorEvent.
func (m *Manager) Reload() {
	if m.dataset != nil {
		go m.dataset.Reload()
		return
	}
	go func() {
		result, err := m.query()
		if err != nil {
			m.broadcast(ErrorEvent{Service: "sqlite", Error: err})
			return
		}
		m.setCurrent(result)
	}()
}

// Current returns the latest query result.
func (m *Manager) Current() *models.QueryResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// ChartOptions merges the configured chart options with the column list of
// result when no columns are configured. The first result column is the
// timestamp and is not part of the selection.
func ChartOptions(cfg *config.Config, result *models.QueryResult) chart.Options {
	opts := cfg.ChartOptions()
	if len(opts.Columns) == 0 && result != nil && len(result.Columns) > 1 {
		opts.Columns = result.Columns[1:]
	}
	return opts
}

// checkAlerts notifies once per upward crossing of the alert threshold by
// the newest value of each series.
func (m *Manager) checkAlerts(result *models.QueryResult) {
	if !m.cfg.AlertEnabled || result == nil {
		return
	}
	for _, sum := range Summarize(m.cfg, result) {
		if !sum.HasValues {
			continue
		}
		key, v := sum.Key, sum.Latest
		m.mu.Lock()
		was := m.alerted[key]
		over := v >= m.cfg.AlertThreshold
		m.alerted[key] = over
		m.mu.Unlock()

		if !over || was {
			continue
		}
		title := fmt.Sprintf("Threshold crossed: %s", key)
		body := fmt.Sprintf("Latest value %.4g is above %.4g", v, m.cfg.AlertThreshold)
		if err := m.notify(title, body); err != nil {
			logger.Warn("failed to send desktop notification", "error", err)
		}
		m.broadcast(AlertEvent{Key: key, Value: v, Threshold: m.cfg.AlertThreshold})
	}
}

func latest(data chart.SeriesData) (float64, bool) {
	var (
		bestT int64
		bestV float64
		found bool
	)
	for t, v := range data {
		if math.IsNaN(v) {
			continue
		}
		if !found || t > bestT {
			bestT, bestV, found = t, v, true
		}
	}
	return bestV, found
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close closes the manager and its source.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error
	if m.dataset != nil {
		if err := m.dataset.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
