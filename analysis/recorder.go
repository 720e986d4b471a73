// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package analysis

import (
	"fmt"

	"github.com/danielhkuo/photondb/ingest"
	"github.com/danielhkuo/photondb/models"
	"github.com/danielhkuo/photondb/store"
)

// Feature is one observable detected within a spectrum: a type (peak,
// valley) and its named numeric metrics.
type Feature struct {
	Type   string
	Values map[string]models.Quantity
}

// Detector is the numeric peak/valley algorithm. Implementations consume a
// spectrum's samples and produce candidate features with computed metrics;
// the store layer treats them as a black box.
type Detector interface {
	Detect(points []ingest.SpectrumPoint) []Feature
}

// Recorder persists detector output with lineage tracking.
type Recorder struct {
	store *store.Store
}

// NewRecorder returns a Recorder writing through st.
func NewRecorder(st *store.Store) *Recorder {
	return &Recorder{store: st}
}

// Record persists one analysis execution: the run row, lineage edges to the
// consumed data artifacts, one feature row per detected feature (ordinal by
// position, per type), and one value row per metric. The whole recording is
// idempotent for a fixed (session, type, index): re-recording resolves to
// the same rows. Returns the run's surrogate key.
func (r *Recorder) Record(sessionID int64, analysisType string, analysisIndex int, dataIDs []int64, features []Feature) (int64, error) {
	analysisID, err := r.store.InsertAnalysisRun(models.AnalysisRun{
		SessionID:     sessionID,
		AnalysisType:  analysisType,
		AnalysisIndex: analysisIndex,
	})
	if err != nil {
		return 0, fmt.Errorf("record analysis run: %w", err)
	}

	if err := r.store.InsertAnalysisInputs(analysisID, dataIDs); err != nil {
		return 0, fmt.Errorf("record analysis inputs: %w", err)
	}

	// feature_index is per type: the third peak stays peak #2 even when
	// valleys interleave.
	indexByType := make(map[string]int)
	for _, feature := range features {
		idx := indexByType[feature.Type]
		indexByType[feature.Type]++

		featureID, err := r.store.InsertFeature(models.Feature{
			AnalysisID:   analysisID,
			FeatureType:  feature.Type,
			FeatureIndex: idx,
		})
		if err != nil {
			return 0, fmt.Errorf("record feature %s[%d]: %w", feature.Type, idx, err)
		}
		if err := r.store.InsertFeatureValues(featureID, feature.Values); err != nil {
			return 0, fmt.Errorf("record values for feature %s[%d]: %w", feature.Type, idx, err)
		}
	}

	return analysisID, nil
}
