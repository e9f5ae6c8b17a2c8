package notification

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Ojas-Arora/SoundAware/internal/conf"
	"github.com/Ojas-Arora/SoundAware/internal/logging"
)

const dedupeWindow = 30 * time.Second

// Store holds the capped, most-recent-first list of notifications. All
// mutations persist the full list as a JSON blob with last-write-wins
// semantics; persistence failures are logged and otherwise ignored so the
// in-memory state always reflects the latest event.
type Store struct {
	mu            sync.RWMutex
	notifications []*Notification
	maxSize       int
	path          string
	dedupe        *gocache.Cache
	logger        *slog.Logger
}

// NewStore creates a store capped at the standard notification limit,
// persisting to the given path. An empty path disables persistence. Existing
// persisted state is loaded when readable; an incompatible or corrupt blob
// yields an empty store rather than an error.
func NewStore(path string) *Store {
	s := &Store{
		maxSize: conf.NotificationLimit,
		path:    path,
		dedupe:  gocache.New(dedupeWindow, time.Minute),
		logger:  logging.ForService("notification"),
	}
	s.load()
	return s
}

// Add inserts a notification at the front of the list, dropping the oldest
// entries beyond the cap. Identical notifications arriving within a short
// window are suppressed to avoid flooding the user during continuous
// capture. Returns whether the notification was accepted.
func (s *Store) Add(n *Notification) bool {
	key := fmt.Sprintf("%s|%s|%s", n.Type, n.Title, n.Message)
	if _, exists := s.dedupe.Get(key); exists {
		s.logger.Debug("duplicate notification suppressed", "title", n.Title)
		return false
	}
	s.dedupe.Set(key, struct{}{}, gocache.DefaultExpiration)

	s.mu.Lock()
	s.notifications = append([]*Notification{n}, s.notifications...)
	if len(s.notifications) > s.maxSize {
		s.notifications = s.notifications[:s.maxSize]
	}
	s.mu.Unlock()

	s.persist()
	return true
}

// List returns a copy of the notifications, most recent first.
func (s *Store) List() []*Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Notification, len(s.notifications))
	for i, n := range s.notifications {
		out[i] = n.Clone()
	}
	return out
}

// UnreadCount returns the number of unread notifications.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead marks a single notification as read.
func (s *Store) MarkRead(id string) error {
	s.mu.Lock()
	found := false
	for _, n := range s.notifications {
		if n.ID == id {
			n.Read = true
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return ErrNotificationNotFound
	}
	s.persist()
	return nil
}

// MarkAllRead marks every notification as read.
func (s *Store) MarkAllRead() {
	s.mu.Lock()
	for _, n := range s.notifications {
		n.Read = true
	}
	s.mu.Unlock()

	s.persist()
}

// Clear removes all notifications.
func (s *Store) Clear() {
	s.mu.Lock()
	s.notifications = nil
	s.mu.Unlock()

	s.persist()
}

// load reads the persisted list. Any failure leaves the store empty.
func (s *Store) load() {
	if s.path == "" {
		return
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read notification state", "path", s.path, "error", err)
		}
		return
	}

	var notifications []*Notification
	if err := json.Unmarshal(data, &notifications); err != nil {
		s.logger.Warn("incompatible notification state, starting empty", "path", s.path, "error", err)
		return
	}

	if len(notifications) > s.maxSize {
		notifications = notifications[:s.maxSize]
	}
	s.notifications = notifications
}

// persist writes the full list as one JSON blob. Errors are logged and
// swallowed; the in-memory list stays authoritative.
func (s *Store) persist() {
	if s.path == "" {
		return
	}

	s.mu.RLock()
	data, err := json.MarshalIndent(s.notifications, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		s.logger.Error("failed to encode notification state", "error", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Error("failed to create state directory", "path", s.path, "error", err)
		return
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.logger.Error("failed to write notification state", "path", s.path, "error", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.logger.Error("failed to replace notification state", "path", s.path, "error", err)
	}
}
