package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/talentsage/internal/logger"
	"github.com/spigell/talentsage/internal/recruitment"
)

// snapshotVersion is bumped when the persisted layout changes.
const snapshotVersion = 0

// Snapshot is the persisted layout. State whitelists exactly one field of the
// store: the rubric mapping. Jobs, candidates and the audit trail are always
// re-seeded from fixtures.
type Snapshot struct {
	State   RubricState `json:"state"`
	Version int         `json:"version"`
}

type RubricState struct {
	Rubrics map[string]recruitment.Rubric `json:"rubrics"`
}

// RubricStore writes and restores the rubric slice of the store through a Blob.
type RubricStore struct {
	blob   Blob
	logger *zap.Logger
}

func NewRubricStore(blob Blob, log *zap.Logger) *RubricStore {
	return &RubricStore{blob: blob, logger: logger.WithFields(log)}
}

// SaveRubrics implements recruitment.Persister.
func (s *RubricStore) SaveRubrics(ctx context.Context, rubrics map[string]recruitment.Rubric) error {
	data, err := json.Marshal(Snapshot{
		State:   RubricState{Rubrics: rubrics},
		Version: snapshotVersion,
	})
	if err != nil {
		return fmt.Errorf("marshal rubric snapshot: %w", err)
	}

	if err := s.blob.Write(ctx, data); err != nil {
		return fmt.Errorf("write rubric snapshot: %w", err)
	}

	s.logger.Debug("rubric snapshot written", zap.Int("rubrics", len(rubrics)), zap.Int("bytes", len(data)))
	return nil
}

// LoadRubrics returns the persisted rubric mapping. The boolean is false when
// nothing has been persisted yet.
func (s *RubricStore) LoadRubrics(ctx context.Context) (map[string]recruitment.Rubric, bool, error) {
	data, err := s.blob.Read(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("read rubric snapshot: %w", err)
	}
	if data == nil {
		return nil, false, nil
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, false, fmt.Errorf("parse rubric snapshot: %w", err)
	}

	if snapshot.State.Rubrics == nil {
		return nil, false, nil
	}

	return snapshot.State.Rubrics, true, nil
}

// Restore loads the persisted rubrics into the store, if any.
func (s *RubricStore) Restore(ctx context.Context, store *recruitment.Store) error {
	rubrics, ok, err := s.LoadRubrics(ctx)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Debug("no persisted rubrics found")
		return nil
	}

	store.RestoreRubrics(rubrics)
	s.logger.Info("restored persisted rubrics", zap.Int("rubrics", len(rubrics)))
	return nil
}
