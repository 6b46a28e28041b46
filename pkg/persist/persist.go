// Package persist saves and restores documents through a ports.BlobStore,
// chunking records that exceed the store's practical entry size.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/user/journalpage/pkg/journal"
	"github.com/user/journalpage/pkg/ports"
)

const (
	// Records larger than this are split into chunk entries.
	chunkSize = 500 * 1024

	keyPrefix = "journal:"

	// SlotDraft holds in-progress edits; SlotSubmitted holds the last
	// submitted page. Submit writes the submitted slot and clears the draft.
	SlotDraft     = "draft"
	SlotSubmitted = "submitted"
)

// meta describes a chunked record. It is written last so an interrupted save
// leaves no readable record behind.
type meta struct {
	Chunks int `json:"chunks"`
	Size   int `json:"size"`
}

// Manager owns the save/load protocol on top of a BlobStore.
type Manager struct {
	store  ports.BlobStore
	logger ports.Logger
}

// NewManager creates a persistence manager.
func NewManager(store ports.BlobStore, logger ports.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger.WithComponent("persist"),
	}
}

// SaveDraft writes the document to the draft slot.
func (m *Manager) SaveDraft(doc journal.DocumentState) error {
	return m.save(SlotDraft, doc)
}

// LoadDraft restores the draft slot. The second result is false when no
// draft exists or a stored record was discarded as corrupt.
func (m *Manager) LoadDraft() (journal.DocumentState, bool, error) {
	return m.load(SlotDraft)
}

// ClearDraft removes the draft slot.
func (m *Manager) ClearDraft() error {
	return m.deleteRecord(SlotDraft)
}

// Submit writes the document to the submitted slot and clears the draft, so
// a reload after submit shows the submitted page rather than stale edits.
func (m *Manager) Submit(doc journal.DocumentState) error {
	if err := m.save(SlotSubmitted, doc); err != nil {
		return err
	}
	return m.deleteRecord(SlotDraft)
}

// LoadSubmitted restores the submitted slot.
func (m *Manager) LoadSubmitted() (journal.DocumentState, bool, error) {
	return m.load(SlotSubmitted)
}

// save writes the document, degrading to a payload-stripped copy when the
// store reports quota exhaustion. The in-memory document is never modified.
func (m *Manager) save(slot string, doc journal.DocumentState) error {
	data, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	err = m.writeRecord(slot, string(data))
	if err == nil {
		return nil
	}
	if !errors.Is(err, ports.ErrQuotaExceeded) {
		return err
	}

	// Quota hit: keep the page geometry, drop the image bytes, try once more.
	m.logger.Warn("Storage quota hit saving %q, retrying without image payloads", slot)
	stripped, err := doc.StripImagePayloads().Marshal()
	if err != nil {
		return fmt.Errorf("marshal stripped document: %w", err)
	}
	if err := m.writeRecord(slot, string(stripped)); err != nil {
		return fmt.Errorf("save %q after stripping payloads: %w", slot, err)
	}
	return nil
}

// load reads a record, reassembling chunks. A chunked record whose
// reassembled size disagrees with its meta entry is discarded, not surfaced
// as a decode error.
func (m *Manager) load(slot string) (journal.DocumentState, bool, error) {
	metaValue, ok, err := m.store.Get(metaKey(slot))
	if err != nil {
		return journal.DocumentState{}, false, fmt.Errorf("read %q meta: %w", slot, err)
	}

	var data string
	if ok {
		var info meta
		if err := json.Unmarshal([]byte(metaValue), &info); err != nil {
			m.logger.Warn("Discarding %q: unreadable meta entry", slot)
			return journal.DocumentState{}, false, m.deleteRecord(slot)
		}
		var sb strings.Builder
		sb.Grow(info.Size)
		for i := 0; i < info.Chunks; i++ {
			chunk, ok, err := m.store.Get(chunkKey(slot, i))
			if err != nil {
				return journal.DocumentState{}, false, fmt.Errorf("read %q chunk %d: %w", slot, i, err)
			}
			if !ok {
				m.logger.Warn("Discarding %q: chunk %d of %d missing", slot, i, info.Chunks)
				return journal.DocumentState{}, false, m.deleteRecord(slot)
			}
			sb.WriteString(chunk)
		}
		if sb.Len() != info.Size {
			m.logger.Warn("Discarding %q: got %d bytes, meta says %d", slot, sb.Len(), info.Size)
			return journal.DocumentState{}, false, m.deleteRecord(slot)
		}
		data = sb.String()
	} else {
		data, ok, err = m.store.Get(recordKey(slot))
		if err != nil {
			return journal.DocumentState{}, false, fmt.Errorf("read %q: %w", slot, err)
		}
		if !ok {
			return journal.DocumentState{}, false, nil
		}
	}

	doc, err := journal.Unmarshal([]byte(data))
	if err != nil {
		return journal.DocumentState{}, false, fmt.Errorf("decode %q: %w", slot, err)
	}
	return doc, true, nil
}

// writeRecord replaces the slot's record. Small records go in a single
// entry; large ones are chunked with the meta entry written last.
func (m *Manager) writeRecord(slot, data string) error {
	if err := m.deleteRecord(slot); err != nil {
		return err
	}

	if len(data) <= chunkSize {
		if err := m.store.Set(recordKey(slot), data); err != nil {
			return fmt.Errorf("write %q: %w", slot, err)
		}
		return nil
	}

	chunks := (len(data) + chunkSize - 1) / chunkSize
	for i := 0; i < chunks; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > len(data) {
			end = len(data)
		}
		if err := m.store.Set(chunkKey(slot, i), data[start:end]); err != nil {
			// Leave no partial record behind.
			_ = m.deleteRecord(slot)
			return fmt.Errorf("write %q chunk %d: %w", slot, i, err)
		}
	}

	info, err := json.Marshal(meta{Chunks: chunks, Size: len(data)})
	if err != nil {
		return fmt.Errorf("marshal %q meta: %w", slot, err)
	}
	if err := m.store.Set(metaKey(slot), string(info)); err != nil {
		_ = m.deleteRecord(slot)
		return fmt.Errorf("write %q meta: %w", slot, err)
	}
	m.logger.Debug("Saved %q in %d chunks (%d bytes)", slot, chunks, len(data))
	return nil
}

// deleteRecord removes the slot's entry and any chunks it owns.
func (m *Manager) deleteRecord(slot string) error {
	keys, err := m.store.Keys(keyPrefix + slot)
	if err != nil {
		return fmt.Errorf("list %q keys: %w", slot, err)
	}
	for _, key := range keys {
		if err := m.store.Delete(key); err != nil {
			return fmt.Errorf("delete %q: %w", key, err)
		}
	}
	return nil
}

func recordKey(slot string) string { return keyPrefix + slot }

func metaKey(slot string) string { return keyPrefix + slot + ":meta" }

func chunkKey(slot string, n int) string {
	return fmt.Sprintf("%s%s:chunk:%d", keyPrefix, slot, n)
}
