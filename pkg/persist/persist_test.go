package persist

import (
	"bytes"
	"testing"

	"github.com/user/journalpage/pkg/geometry"
	"github.com/user/journalpage/pkg/journal"
	"github.com/user/journalpage/pkg/mocks"
)

func newManager(store *mocks.BlobStore) *Manager {
	return NewManager(store, &mocks.Logger{})
}

func smallDocument() journal.DocumentState {
	return journal.DocumentState{
		Date:     "2025-06-01",
		Location: "Lisbon",
		Body:     "A long day of walking.",
		Mode:     journal.ModeStandard,
		Colors:   journal.TextColors{Location: "#3a7bd5", LocationShadow: "#28568f"},
	}
}

// largeDocument carries enough image payload to force chunking: ~1.4 MB of
// serialized JSON.
func largeDocument() journal.DocumentState {
	doc := smallDocument()
	img := journal.NewImageElement(bytes.Repeat([]byte{0xab}, 1_050_000), 1.5)
	img.Position = geometry.Position{X: 130, Y: 470, Width: 744, Height: 496}
	doc.Images = []journal.ImageElement{img}
	return doc
}

func TestSaveDraft_RoundTrip(t *testing.T) {
	store := mocks.NewBlobStore()
	m := newManager(store)

	if err := m.SaveDraft(smallDocument()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := m.LoadDraft()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("draft not found after save")
	}
	if got.Location != "Lisbon" || got.Body != "A long day of walking." {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if store.Len() != 1 {
		t.Errorf("small record should be a single entry, store holds %d", store.Len())
	}
}

func TestLoadDraft_MissingIsNotAnError(t *testing.T) {
	m := newManager(mocks.NewBlobStore())
	_, ok, err := m.LoadDraft()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Error("found a draft in an empty store")
	}
}

func TestSaveDraft_LargeRecordIsChunked(t *testing.T) {
	store := mocks.NewBlobStore()
	m := newManager(store)
	doc := largeDocument()

	if err := m.SaveDraft(doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	keys, _ := store.Keys("journal:draft:chunk:")
	if len(keys) != 3 {
		t.Fatalf("expected 3 chunks for a 1.4MB record, got %d", len(keys))
	}
	if _, ok, _ := store.Get("journal:draft:meta"); !ok {
		t.Fatal("meta entry missing")
	}

	got, ok, err := m.LoadDraft()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("chunked draft not found")
	}
	if len(got.Images) != 1 || !bytes.Equal(got.Images[0].Source, doc.Images[0].Source) {
		t.Error("chunked round trip corrupted the image payload")
	}
}

func TestLoad_SizeMismatchDiscardsRecord(t *testing.T) {
	store := mocks.NewBlobStore()
	m := newManager(store)

	if err := m.SaveDraft(largeDocument()); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Truncate the middle chunk.
	chunk, _, _ := store.Get("journal:draft:chunk:1")
	if err := store.Set("journal:draft:chunk:1", chunk[:len(chunk)/2]); err != nil {
		t.Fatalf("corrupt chunk: %v", err)
	}

	_, ok, err := m.LoadDraft()
	if err != nil {
		t.Fatalf("load must not surface a decode error: %v", err)
	}
	if ok {
		t.Fatal("corrupt record was not discarded")
	}
	if store.Len() != 0 {
		t.Errorf("discard left %d entries behind", store.Len())
	}
}

func TestSave_QuotaStripsImagePayloadsOnce(t *testing.T) {
	store := mocks.NewBlobStore()
	store.FailSets = 1
	m := newManager(store)
	doc := largeDocument()

	if err := m.SaveDraft(doc); err != nil {
		t.Fatalf("save with one quota failure must degrade, got: %v", err)
	}
	// The in-memory document keeps its payload.
	if len(doc.Images[0].Source) == 0 {
		t.Fatal("save mutated the live document")
	}

	got, ok, err := m.LoadDraft()
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if len(got.Images) != 1 {
		t.Fatal("stripped save lost the image geometry")
	}
	if len(got.Images[0].Source) != 0 {
		t.Error("stored record still carries image bytes")
	}
	if got.Images[0].Position.Width != 744 {
		t.Error("stripped save lost the position")
	}
}

func TestSave_SecondQuotaFailureIsReported(t *testing.T) {
	store := mocks.NewBlobStore()
	store.FailSets = 10
	m := newManager(store)

	if err := m.SaveDraft(largeDocument()); err == nil {
		t.Fatal("expected an error once the stripped retry also hits quota")
	}
	if store.Len() != 0 {
		t.Errorf("failed save left %d entries behind", store.Len())
	}
}

func TestSubmit_WritesSubmittedAndClearsDraft(t *testing.T) {
	store := mocks.NewBlobStore()
	m := newManager(store)

	if err := m.SaveDraft(smallDocument()); err != nil {
		t.Fatalf("save draft: %v", err)
	}
	if err := m.Submit(smallDocument()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, ok, _ := m.LoadDraft(); ok {
		t.Error("draft survived submit")
	}
	got, ok, err := m.LoadSubmitted()
	if err != nil || !ok {
		t.Fatalf("load submitted: ok=%v err=%v", ok, err)
	}
	if got.Location != "Lisbon" {
		t.Errorf("submitted slot holds %+v", got)
	}
}

func TestClearDraft_RemovesChunkedRecord(t *testing.T) {
	store := mocks.NewBlobStore()
	m := newManager(store)

	if err := m.SaveDraft(largeDocument()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := m.ClearDraft(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("clear left %d entries", store.Len())
	}
}
