package template

import (
	"fmt"
	"io"
	"sort"
)

const snapshotVersion = 1

type snapshotEntry struct {
	Key    string `msgpack:"k"`
	Ref    string `msgpack:"r"`
	Source Source `msgpack:"s"`
	HTML   string `msgpack:"h"`
}

type snapshot struct {
	Version int             `msgpack:"v"`
	Entries []snapshotEntry `msgpack:"e"`
}

// Export writes the cache as a sealed msgpack snapshot. With encrypt the
// snapshot is encrypted, otherwise signed.
func (l *Loader) Export(w io.Writer, encrypt bool) error {
	if l.enc == nil {
		return ErrNoEncoder
	}
	l.mu.RLock()
	snap := snapshot{Version: snapshotVersion, Entries: make([]snapshotEntry, 0, len(l.cache))}
	for _, t := range l.cache {
		snap.Entries = append(snap.Entries, snapshotEntry{Key: t.Key, Ref: t.Ref, Source: t.Source, HTML: t.HTML})
	}
	l.mu.RUnlock()
	sort.Slice(snap.Entries, func(i, j int) bool { return snap.Entries[i].Key < snap.Entries[j].Key })

	sealed, err := l.enc.Seal(snap, encrypt)
	if err != nil {
		return fmt.Errorf("template: export: %w", err)
	}
	_, err = io.WriteString(w, sealed)
	return err
}

// Import verifies a snapshot written by Export and merges its entries into
// the cache. It returns the number of entries loaded. A snapshot that fails
// verification leaves the cache untouched.
func (l *Loader) Import(r io.Reader) (int, error) {
	if l.enc == nil {
		return 0, ErrNoEncoder
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	var snap snapshot
	if err := l.enc.Open(string(data), &snap); err != nil {
		return 0, fmt.Errorf("template: import: %w", err)
	}
	if snap.Version != snapshotVersion {
		return 0, fmt.Errorf("%w: %d", ErrBadVersion, snap.Version)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range snap.Entries {
		l.cache[e.Key] = &Template{Key: e.Key, Ref: e.Ref, Source: e.Source, HTML: e.HTML}
	}
	return len(snap.Entries), nil
}
