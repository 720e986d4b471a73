// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/danielhkuo/photondb/models"
	"github.com/danielhkuo/photondb/store"
)

// SupportedExtensions are the raw-data file types considered for ingestion.
var SupportedExtensions = map[string]bool{
	".csv": true,
	".txt": true,
	".s2p": true,
}

// SpectrumDataType is the data type whose file content is parsed for sweep
// header attributes during import.
const SpectrumDataType = "SPCM"

// Options configure an import batch. The filename convention carries no DOE
// field, so DOE comes from the caller.
type Options struct {
	DOE           string
	Operator      string
	SystemVersion string
	Notes         string

	// TargetRoot, when set, relocates ingested files into
	// root/wafer/doe/die{n}/cage/device/session/ after a successful
	// import; the stored file path is the destination.
	TargetRoot string

	Logger *slog.Logger
}

// Importer maps parsed measurement files onto store rows. All writes go
// through the store's upsert keys, so re-running the same folder leaves
// every entity count unchanged.
type Importer struct {
	store *store.Store
	opts  Options
	log   *slog.Logger
}

// New returns an Importer writing through st.
func New(st *store.Store, opts Options) *Importer {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Importer{store: st, opts: opts, log: log}
}

// ParsedFile pairs a candidate file with its parsed attributes.
type ParsedFile struct {
	Path string
	Meta FileMeta
}

// ScanFolder enumerates the supported files of one folder, splitting them
// into parseable candidates and skipped names. A missing folder is a fatal
// setup error.
func ScanFolder(folder string) ([]ParsedFile, []string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, nil, fmt.Errorf("read folder %s: %w", folder, err)
	}

	var (
		valid   []ParsedFile
		skipped []string
	)
	for _, entry := range entries {
		if entry.IsDir() || !SupportedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		meta, err := ParseFilename(entry.Name())
		if err != nil {
			skipped = append(skipped, entry.Name())
			continue
		}
		valid = append(valid, ParsedFile{Path: filepath.Join(folder, entry.Name()), Meta: meta})
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].Path < valid[j].Path })
	sort.Strings(skipped)
	return valid, skipped, nil
}

// Result summarizes one import batch.
type Result struct {
	Imported int
	Skipped  []string
}

// ImportFolder ingests every parseable measurement file of one folder: one
// upserted DUT and session per file, conditions from the parsed numeric
// attributes, one data row per file path, and channel/power attributes as
// data info. Files that fail to parse are skipped and reported; only setup
// failures (missing folder, store errors) abort the batch.
func (imp *Importer) ImportFolder(folder string) (Result, error) {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return Result{}, fmt.Errorf("measurement folder %s not found", folder)
	}

	files, skipped, err := ScanFolder(folder)
	if err != nil {
		return Result{}, err
	}
	for _, name := range skipped {
		imp.log.Warn("skipping file with unrecognized name", "file", name)
	}

	result := Result{Skipped: skipped}
	sessionName := filepath.Base(folder)
	sessionTime := info.ModTime()

	for _, file := range files {
		if err := imp.importFile(file, sessionName, sessionTime); err != nil {
			if errors.Is(err, ErrBadSpectrum) {
				imp.log.Warn("skipping file with unrecognized content", "file", file.Path, "error", err)
				result.Skipped = append(result.Skipped, filepath.Base(file.Path))
				continue
			}
			return result, err
		}
		result.Imported++
	}

	imp.log.Info("import finished",
		"folder", folder, "imported", result.Imported, "skipped", len(result.Skipped))
	return result, nil
}

func (imp *Importer) importFile(file ParsedFile, sessionName string, sessionTime time.Time) error {
	meta := file.Meta

	// Parse spectral content up front so a malformed file skips cleanly
	// before any rows are written.
	var spectrum *Spectrum
	if meta.DataType == SpectrumDataType {
		var err error
		if spectrum, err = ReadSpectrum(file.Path); err != nil {
			return err
		}
	}

	dutID, err := imp.store.InsertDUT(meta.Wafer, imp.opts.DOE, meta.Die, meta.Cage, meta.Device)
	if err != nil {
		return err
	}

	sessionID, err := imp.store.InsertSession(models.Session{
		DUTID:         dutID,
		Name:          sessionName,
		Timestamp:     sessionTime,
		Operator:      imp.opts.Operator,
		SystemVersion: imp.opts.SystemVersion,
		Notes:         imp.opts.Notes,
	})
	if err != nil {
		return err
	}

	if err := imp.store.InsertConditions(sessionID, map[string]models.Quantity{
		"temperature":    models.WithUnit(meta.TemperatureC, "C"),
		"drive_voltage":  models.WithUnit(meta.DriveVoltageMV, "mV"),
		"heater_voltage": models.WithUnit(meta.HeaterVoltageMV, "mV"),
	}); err != nil {
		return err
	}

	storedPath, err := filepath.Abs(file.Path)
	if err != nil {
		return err
	}
	var dst string
	if imp.opts.TargetRoot != "" {
		dst = filepath.Join(imp.targetDir(meta, sessionName), filepath.Base(file.Path))
		storedPath = dst
	}

	fileInfo, err := os.Stat(file.Path)
	if err != nil {
		return err
	}
	dataID, err := imp.store.InsertData(models.Data{
		SessionID:   sessionID,
		DataType:    meta.DataType,
		FilePath:    storedPath,
		CreatedTime: fileInfo.ModTime(),
	})
	if err != nil {
		return err
	}

	info := map[string]models.Quantity{
		"channel_in":  models.Bare(float64(meta.ChannelIn)),
		"channel_out": models.Bare(float64(meta.ChannelOut)),
		"power":       models.WithUnit(meta.PowerDBm, "dBm"),
	}
	if spectrum != nil {
		for key, q := range spectrum.Header {
			info[key] = q
		}
	}
	if err := imp.store.InsertDataInfo(dataID, info); err != nil {
		return err
	}

	if dst != "" {
		if err := moveFile(file.Path, dst); err != nil {
			return fmt.Errorf("relocate %s: %w", file.Path, err)
		}
	}

	imp.log.Debug("imported measurement file",
		"file", filepath.Base(file.Path), "dut_id", dutID, "session_id", sessionID, "data_id", dataID)
	return nil
}

func (imp *Importer) targetDir(meta FileMeta, sessionName string) string {
	return filepath.Join(
		imp.opts.TargetRoot,
		meta.Wafer,
		imp.opts.DOE,
		fmt.Sprintf("die%d", meta.Die),
		meta.Cage,
		meta.Device,
		sessionName,
	)
}

// moveFile renames, falling back to copy-and-remove across filesystems.
func moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
