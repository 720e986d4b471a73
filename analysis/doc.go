// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package analysis persists spectral-analysis results with lineage tracking.

The numeric algorithm stays behind the Detector interface; Recorder takes
its output and writes one analysis run, the lineage edges to the consumed
data artifacts, and the detected features with their named metrics:

	rec := analysis.NewRecorder(st)
	analysisID, err := rec.Record(sessionID, models.AnalysisPeakDetection, 0,
		dataIDs, detector.Detect(spectrum.Points))

Recording is idempotent per (session, analysis type, analysis index);
callers choose non-colliding indices for multi-pass workflows.
*/
package analysis
