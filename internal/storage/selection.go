package storage

import (
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
)

// SelectionStorage keeps the juz a chat has ticked on the selection keyboard.
type SelectionStorage struct {
	mu       sync.RWMutex
	selected map[int64]map[int]struct{}
}

func NewSelectionStorage() *SelectionStorage {
	return &SelectionStorage{
		selected: make(map[int64]map[int]struct{}),
	}
}

// Toggle flips one juz and reports whether it is now selected.
// Out of range values are ignored.
func (s *SelectionStorage) Toggle(chatID int64, juz int) bool {
	if juz < 1 || juz > entities.TotalJuz {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.set(chatID)
	if _, ok := set[juz]; ok {
		delete(set, juz)
		return false
	}
	set[juz] = struct{}{}
	return true
}

// ToggleGroup selects every juz of the group, or clears them all when the
// whole group was already selected.
func (s *SelectionStorage) ToggleGroup(chatID int64, group []int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.set(chatID)
	all := lo.EveryBy(group, func(juz int) bool {
		_, ok := set[juz]
		return ok
	})

	for _, juz := range group {
		if juz < 1 || juz > entities.TotalJuz {
			continue
		}
		if all {
			delete(set, juz)
		} else {
			set[juz] = struct{}{}
		}
	}
}

// ToggleAll selects all thirty juz, or clears the selection if it was full.
func (s *SelectionStorage) ToggleAll(chatID int64) {
	s.ToggleGroup(chatID, lo.RangeFrom(1, entities.TotalJuz))
}

// Selected returns the chat's selection in ascending order.
func (s *SelectionStorage) Selected(chatID int64) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int, 0, len(s.selected[chatID]))
	for juz := range s.selected[chatID] {
		out = append(out, juz)
	}
	slices.Sort(out)
	return out
}

func (s *SelectionStorage) IsSelected(chatID int64, juz int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.selected[chatID][juz]
	return ok
}

func (s *SelectionStorage) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, chatID)
}

// set must be called with the write lock held.
func (s *SelectionStorage) set(chatID int64) map[int]struct{} {
	set, ok := s.selected[chatID]
	if !ok {
		set = make(map[int]struct{})
		s.selected[chatID] = set
	}
	return set
}
