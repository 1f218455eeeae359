package store

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	ai "github.com/spetersoncode/parley"
)

const transcriptPrefix = "transcript:"

// Transcript is a finished conversation as persisted by the CLI.
type Transcript struct {
	ID string `json:"id"`
	// Kind names the command that produced it, such as "alert" or "game".
	Kind     string       `json:"kind"`
	Messages []ai.Message `json:"messages"`
	// Outcome is the loop termination reason or the game outcome.
	Outcome   string    `json:"outcome,omitempty"`
	Score     *int      `json:"score,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Transcripts saves and loads transcripts through an Adapter.
type Transcripts struct {
	adapter Adapter
	now     func() time.Time
}

// NewTranscripts creates a Transcripts over adapter.
// If adapter is nil, a default in-memory adapter is used.
func NewTranscripts(adapter Adapter) *Transcripts {
	if adapter == nil {
		adapter = NewMemoryAdapter()
	}
	return &Transcripts{adapter: adapter, now: time.Now}
}

// Save stores t and returns its ID, generating one when t.ID is empty.
// A zero CreatedAt is set to the current time.
func (s *Transcripts) Save(ctx context.Context, t Transcript) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now().UTC()
	}

	key := transcriptPrefix + t.ID
	raw, err := json.Marshal(t)
	if err != nil {
		return "", &SerializationError{Key: key, Err: err}
	}
	if err := s.adapter.Set(ctx, key, raw); err != nil {
		return "", err
	}
	return t.ID, nil
}

// Load returns the transcript with the given ID, or ErrNotFound.
func (s *Transcripts) Load(ctx context.Context, id string) (*Transcript, error) {
	key := transcriptPrefix + id
	raw, ok, err := s.adapter.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	var t Transcript
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, &SerializationError{Key: key, Err: err}
	}
	return &t, nil
}

// Delete removes the transcript with the given ID.
func (s *Transcripts) Delete(ctx context.Context, id string) error {
	return s.adapter.Delete(ctx, transcriptPrefix+id)
}

// List returns all transcripts, newest first.
func (s *Transcripts) List(ctx context.Context) ([]Transcript, error) {
	keys, err := s.adapter.Keys(ctx, transcriptPrefix)
	if err != nil {
		return nil, err
	}

	list := make([]Transcript, 0, len(keys))
	for _, key := range keys {
		t, err := s.Load(ctx, strings.TrimPrefix(key, transcriptPrefix))
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	slices.SortStableFunc(list, func(a, b Transcript) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return list, nil
}
