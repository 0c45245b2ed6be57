package highscore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// MaxEntries bounds the list.
	MaxEntries = 10
	// DefaultName replaces an empty player name.
	DefaultName = "Anonym"
	// MaxNameLength bounds a name in runes.
	MaxNameLength = 15
)

// ErrCorrupt reports saved data that cannot be decoded.
var ErrCorrupt = errors.New("highscore: corrupt data")

// Entry is one line of the list.
type Entry struct {
	Name  string    `json:"name"`
	Score int       `json:"score"`
	Date  time.Time `json:"date"`
}

// Options tunes a Table.
type Options struct {
	// Max overrides MaxEntries when positive.
	Max int
	// Now overrides the entry timestamp clock.
	Now func() time.Time
}

// Table is a descending, bounded highscore list backed by a Store. It is not
// safe for concurrent use.
type Table struct {
	store   Store
	max     int
	now     func() time.Time
	entries []Entry
}

// Open loads the list from store. Missing data yields an empty list. Corrupt
// data and store failures are logged and also yield an empty list; the table
// stays usable and later saves overwrite whatever was there.
func Open(ctx context.Context, store Store, opts Options) *Table {
	t := &Table{
		store: store,
		max:   opts.Max,
		now:   opts.Now,
	}
	if t.max <= 0 {
		t.max = MaxEntries
	}
	if t.now == nil {
		t.now = time.Now
	}

	data, err := store.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		return t
	case err != nil:
		log.WithError(err).Warn("highscores unavailable, starting empty")
		return t
	}

	entries, err := Decode(data)
	if err != nil {
		log.WithError(err).Error("resetting unreadable highscores")
		return t
	}
	t.entries = entries
	t.normalize()
	return t
}

// Decode parses an encoded list.
func Decode(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return entries, nil
}

// Encode serializes entries as a JSON array.
func Encode(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(entries)
}

func (t *Table) normalize() {
	sort.SliceStable(t.entries, func(i, j int) bool {
		return t.entries[i].Score > t.entries[j].Score
	})
	if len(t.entries) > t.max {
		t.entries = t.entries[:t.max]
	}
}

// Entries returns a copy of the list, best first.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// IsHighscore reports whether score would enter the list: the list has room,
// or score strictly beats the lowest entry.
func (t *Table) IsHighscore(score int) bool {
	if len(t.entries) < t.max {
		return true
	}
	return score > t.entries[len(t.entries)-1].Score
}

// Rank returns the 1-based position score would take. Ties rank below
// existing entries.
func (t *Table) Rank(score int) int {
	for i, e := range t.entries {
		if score > e.Score {
			return i + 1
		}
	}
	return len(t.entries) + 1
}

// Add inserts an entry, keeps the best entries and saves. The name is trimmed
// and defaults to DefaultName. The in-memory list is updated even when saving
// fails; the returned error then wraps the store error.
func (t *Table) Add(ctx context.Context, name string, score int) (Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	if r := []rune(name); len(r) > MaxNameLength {
		name = strings.TrimSpace(string(r[:MaxNameLength]))
	}
	entry := Entry{Name: name, Score: score, Date: t.now().UTC()}

	t.entries = append(t.entries, entry)
	t.normalize()

	return entry, t.save(ctx)
}

// Clear empties the list and saves.
func (t *Table) Clear(ctx context.Context) error {
	t.entries = nil
	return t.save(ctx)
}

func (t *Table) save(ctx context.Context) error {
	data, err := Encode(t.entries)
	if err != nil {
		return fmt.Errorf("encode highscores: %w", err)
	}
	if err := t.store.Save(ctx, data); err != nil {
		return fmt.Errorf("save highscores: %w", err)
	}
	return nil
}
