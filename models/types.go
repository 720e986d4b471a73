package models

import "time"

// Common analysis and feature type constants
const (
	AnalysisPeakDetection = "peak_detection"

	FeaturePeak   = "peak"
	FeatureValley = "valley"
)

// Quantity is a numeric value with an optional unit. It is the normalized
// form of batch key/value inputs: callers may supply a bare number or a
// (value, unit) pair, both end up here. Unit == "" means unitless.
type Quantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// Bare wraps a unitless numeric value.
func Bare(v float64) Quantity {
	return Quantity{Value: v}
}

// WithUnit wraps a numeric value with its unit.
func WithUnit(v float64, unit string) Quantity {
	return Quantity{Value: v, Unit: unit}
}

// Domain types, one per entity, fields in column declaration order.

type DUT struct {
	ID     int64  `json:"dut_id"`
	Wafer  string `json:"wafer"`
	DOE    string `json:"doe"`
	Die    int    `json:"die"`
	Cage   string `json:"cage"`
	Device string `json:"device"`
}

type Session struct {
	ID            int64     `json:"session_id"`
	DUTID         int64     `json:"dut_id"`
	Name          string    `json:"session_name"`
	Timestamp     time.Time `json:"measurement_datetime"`
	Operator      string    `json:"operator,omitempty"`
	SystemVersion string    `json:"system_version,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

type Condition struct {
	ID        int64   `json:"condition_id"`
	SessionID int64   `json:"session_id"`
	Key       string  `json:"key"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit,omitempty"`
}

type Data struct {
	ID          int64     `json:"data_id"`
	SessionID   int64     `json:"session_id"`
	DataType    string    `json:"data_type"`
	FilePath    string    `json:"file_path"`
	CreatedTime time.Time `json:"created_time"`
}

type DataInfo struct {
	ID     int64   `json:"info_id"`
	DataID int64   `json:"data_id"`
	Key    string  `json:"key"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit,omitempty"`
}

type AnalysisRun struct {
	ID            int64     `json:"analysis_id"`
	SessionID     int64     `json:"session_id"`
	AnalysisType  string    `json:"analysis_type"`
	AnalysisIndex int       `json:"analysis_index"`
	CreatedTime   time.Time `json:"created_time"`
}

// AnalysisInput is a lineage edge between a run and a data artifact.
// Pure relation, no surrogate key.
type AnalysisInput struct {
	AnalysisID int64 `json:"analysis_id"`
	DataID     int64 `json:"data_id"`
}

type Feature struct {
	ID           int64  `json:"feature_id"`
	AnalysisID   int64  `json:"analysis_id"`
	FeatureType  string `json:"feature_type"`
	FeatureIndex int    `json:"feature_index"`
}

type FeatureValue struct {
	ID        int64   `json:"value_id"`
	FeatureID int64   `json:"feature_id"`
	Key       string  `json:"key"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit,omitempty"`
}

// Aggregate types for the composite session query.

type DataWithInfo struct {
	Data Data                `json:"data"`
	Info map[string]Quantity `json:"info"`
}

type FeatureWithValues struct {
	Feature Feature             `json:"feature"`
	Values  map[string]Quantity `json:"values"`
}

type AnalysisRunFull struct {
	Run      AnalysisRun         `json:"run"`
	Inputs   []Data              `json:"inputs"`
	Features []FeatureWithValues `json:"features"`
}

// SessionFullInfo assembles one session with its DUT, conditions, data
// artifacts (with their info), and analysis runs (with inputs, features,
// and values).
type SessionFullInfo struct {
	Session    Session             `json:"session"`
	DUT        DUT                 `json:"dut"`
	Conditions map[string]Quantity `json:"conditions"`
	Data       []DataWithInfo      `json:"measurement_data"`
	Analyses   []AnalysisRunFull   `json:"analysis_runs"`
}
