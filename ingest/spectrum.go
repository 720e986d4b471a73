// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/danielhkuo/photondb/models"
)

// ErrBadSpectrum marks spectral files whose content does not match the
// vendor layout.
var ErrBadSpectrum = errors.New("unsupported spectrum file format")

// SpectrumPoint is one (wavelength, intensity) sample. Wavelengths are
// normalized to nanometers.
type SpectrumPoint struct {
	Wavelength float64
	Intensity  float64
}

// Spectrum is the parsed content of one vendor CSV spectral file: sweep
// header attributes plus the sample block.
type Spectrum struct {
	Header map[string]models.Quantity
	Points []SpectrumPoint
}

// Sweep header rows carried as (name, value, unit) triples before the data
// block.
var spectrumHeaderKeys = map[string]bool{
	"WavelengthStart": true,
	"WavelengthStop":  true,
	"WavelengthStep":  true,
	"SweepRate":       true,
}

func rowHasCell(row []string, want string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) == want {
			return true
		}
	}
	return false
}

// ReadSpectrum parses a vendor CSV spectral file. The sample block starts
// after the "=== Min" or "=== Average IL (TLS 0) ===" sentinel row and ends
// at "=== Mueller Row 1 (TLS 0) ===". Wavelengths (meters in the raw file)
// are scaled to nm. Files without a sample block yield ErrBadSpectrum.
func ReadSpectrum(path string) (*Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	spec := &Spectrum{Header: make(map[string]models.Quantity)}
	inData := false
	for {
		row, err := reader.Read()
		if err != nil {
			break
		}
		if len(row) == 0 {
			continue
		}

		switch {
		case !inData && (rowHasCell(row, "=== Min") || rowHasCell(row, "=== Average IL (TLS 0) ===")):
			inData = true
		case inData && rowHasCell(row, "=== Mueller Row 1 (TLS 0) ==="):
			return spec, nil
		case inData:
			if len(row) < 2 {
				continue
			}
			wl, errW := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
			in, errI := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
			if errW != nil || errI != nil {
				continue
			}
			spec.Points = append(spec.Points, SpectrumPoint{Wavelength: wl * 1e9, Intensity: in})
		case spectrumHeaderKeys[strings.TrimSpace(row[0])] && len(row) >= 3:
			value, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
			if err != nil {
				continue
			}
			spec.Header[strings.TrimSpace(row[0])] = models.WithUnit(value, strings.TrimSpace(row[2]))
		}
	}

	if !inData {
		return nil, fmt.Errorf("%w: %s", ErrBadSpectrum, path)
	}
	return spec, nil
}
