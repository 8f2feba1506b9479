package schedule

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"petgenie/models"
)

// Source is one upstream calendar (Google calendar, ICS feed). Fetch
// returns raw entries in [from, to].
type Source interface {
	ID() string
	Fetch(ctx context.Context, from, to time.Time) ([]models.CalendarEntry, error)
}

// Classifier enriches raw entries; the classifier service satisfies this.
type Classifier interface {
	ClassifyAll(entries []models.CalendarEntry) []models.EnrichedEntry
}

type sourceCache struct {
	Entries     []models.EnrichedEntry
	RefreshedAt time.Time
}

// Status holds the current state of the schedule background worker.
type Status struct {
	Running         bool      `json:"running"`
	State           string    `json:"state"` // "idle", "refreshing", "stopped"
	LastRefreshAt   time.Time `json:"lastRefreshAt"`
	LastRefreshMs   int64     `json:"lastRefreshMs"`
	NextRefreshAt   time.Time `json:"nextRefreshAt"`
	RefreshInterval string    `json:"refreshInterval"`
	SourcesTracked  int       `json:"sourcesTracked"`
	TotalEntries    int       `json:"totalEntries"`
	LastError       string    `json:"lastError,omitempty"`
}

// Service keeps a classified snapshot of every calendar source and
// refreshes it in the background.
type Service struct {
	mu         sync.RWMutex
	cache      map[string]*sourceCache
	sources    []Source
	classifier Classifier
	lookBack   time.Duration
	lookAhead  time.Duration

	stopCh          chan struct{}
	refreshNow      chan struct{}
	refreshInterval time.Duration

	statusMu      sync.RWMutex
	running       bool
	state         string
	lastRefreshAt time.Time
	lastRefreshMs int64
	nextRefreshAt time.Time
	lastError     string
}

// New creates a schedule service over the given sources.
func New(classifier Classifier, sources ...Source) *Service {
	return &Service{
		cache:      make(map[string]*sourceCache),
		sources:    sources,
		classifier: classifier,
		lookBack:   30 * 24 * time.Hour,
		lookAhead:  90 * 24 * time.Hour,
	}
}

// StartBackgroundRefresh begins async population on startup and periodic
// refresh thereafter.
func (s *Service) StartBackgroundRefresh(interval time.Duration) {
	s.refreshInterval = interval
	s.stopCh = make(chan struct{})
	s.refreshNow = make(chan struct{}, 1)

	s.statusMu.Lock()
	s.running = true
	s.state = "idle"
	s.statusMu.Unlock()

	go func() {
		log.Println("[schedule] background refresh: initial population starting...")
		s.doRefresh()
		log.Println("[schedule] background refresh: initial population complete")

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			s.statusMu.Lock()
			s.nextRefreshAt = time.Now().Add(interval)
			s.statusMu.Unlock()

			select {
			case <-ticker.C:
				s.doRefresh()
			case <-s.refreshNow:
				s.doRefresh()
				// Next auto-refresh is a full interval away again.
				ticker.Reset(interval)
			case <-s.stopCh:
				log.Println("[schedule] background refresh: stopped")
				s.statusMu.Lock()
				s.running = false
				s.state = "stopped"
				s.statusMu.Unlock()
				return
			}
		}
	}()
}

// Refresh triggers an immediate refresh. Non-blocking.
func (s *Service) Refresh() {
	select {
	case s.refreshNow <- struct{}{}:
	default:
		// Already a refresh pending.
	}
}

// Stop gracefully stops the background refresh.
func (s *Service) Stop() {
	if s.stopCh != nil {
		close(s.stopCh)
	}
}

// Get returns the cached entries for one source, or nil if not yet
// populated.
func (s *Service) Get(sourceID string) []models.EnrichedEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.cache[sourceID]; ok {
		return c.Entries
	}
	return nil
}

// All returns the cached entries of every source merged and sorted by
// start time.
func (s *Service) All() []models.EnrichedEntry {
	s.mu.RLock()
	var entries []models.EnrichedEntry
	for _, c := range s.cache {
		entries = append(entries, c.Entries...)
	}
	s.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Start.Before(entries[j].Start) })
	return entries
}

// GetStatus returns the current state of the background worker.
func (s *Service) GetStatus() Status {
	s.statusMu.RLock()
	status := Status{
		Running:       s.running,
		State:         s.state,
		LastRefreshAt: s.lastRefreshAt,
		LastRefreshMs: s.lastRefreshMs,
		NextRefreshAt: s.nextRefreshAt,
		LastError:     s.lastError,
	}
	s.statusMu.RUnlock()

	s.mu.RLock()
	status.SourcesTracked = len(s.cache)
	for _, c := range s.cache {
		status.TotalEntries += len(c.Entries)
	}
	s.mu.RUnlock()

	if s.refreshInterval > 0 {
		if s.refreshInterval >= time.Hour {
			status.RefreshInterval = fmt.Sprintf("%.0fh", s.refreshInterval.Hours())
		} else {
			status.RefreshInterval = fmt.Sprintf("%.0fm", s.refreshInterval.Minutes())
		}
	}
	return status
}

func (s *Service) doRefresh() {
	s.statusMu.Lock()
	s.state = "refreshing"
	s.statusMu.Unlock()

	start := time.Now()
	err := s.refreshAll()
	elapsed := time.Since(start)

	s.statusMu.Lock()
	s.state = "idle"
	s.lastRefreshAt = time.Now()
	s.lastRefreshMs = elapsed.Milliseconds()
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.statusMu.Unlock()
}

// refreshAll fetches every source concurrently. A failing source keeps its
// previous snapshot; the first error is surfaced in the status.
func (s *Service) refreshAll() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	from := time.Now().Add(-s.lookBack)
	to := time.Now().Add(s.lookAhead)

	p := pool.New().WithErrors()
	for _, src := range s.sources {
		p.Go(func() error {
			raw, err := src.Fetch(ctx, from, to)
			if err != nil {
				log.Printf("[schedule] refresh failed for source %s: %v", src.ID(), err)
				return fmt.Errorf("source %s: %w", src.ID(), err)
			}

			enriched := s.classifier.ClassifyAll(raw)
			s.mu.Lock()
			s.cache[src.ID()] = &sourceCache{Entries: enriched, RefreshedAt: time.Now().UTC()}
			s.mu.Unlock()

			log.Printf("[schedule] refreshed source %s: %d entries", src.ID(), len(enriched))
			return nil
		})
	}
	return p.Wait()
}
