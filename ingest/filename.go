// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
)

// ErrBadFilename marks names that do not match the measurement-file
// convention. Such files are skipped and reported, never fatal to a batch.
var ErrBadFilename = errors.New("filename does not match measurement convention")

// Measurement files follow a positional underscore convention:
//
//	{datatype}_{wafer}_die{die}_{cage}_{device}_{temp}C_ch_{chIn}_{chOut}_{power}dBm_pn_{voltage}mV_heat_{heatVoltage}_mV.csv
var filenamePattern = regexp.MustCompile(
	`^(?P<datatype>[^_]+)` +
		`_(?P<wafer>[^_]+)` +
		`_die(?P<die>\d+)` +
		`_(?P<cage>[^_]+)` +
		`_(?P<device>[^_]+)` +
		`_(?P<temperature>-?\d+(?:\.\d+)?)C` +
		`_ch_(?P<chin>\d+)` +
		`_(?P<chout>\d+)` +
		`_(?P<power>-?\d+(?:\.\d+)?)dBm` +
		`_pn_(?P<drive>-?\d+(?:\.\d+)?)mV` +
		`_heat_(?P<heater>-?\d+(?:\.\d+)?)_mV` +
		`\.(?:csv|txt|s2p)$`)

// FileMeta is the typed attribute set extracted from one filename.
type FileMeta struct {
	DataType        string
	Wafer           string
	Die             int
	Cage            string
	Device          string
	TemperatureC    float64
	ChannelIn       int
	ChannelOut      int
	PowerDBm        float64
	DriveVoltageMV  float64
	HeaterVoltageMV float64
}

// ParseFilename extracts measurement attributes from a file name (or path).
// Returns ErrBadFilename when the name does not match the convention.
func ParseFilename(name string) (FileMeta, error) {
	base := filepath.Base(name)
	match := filenamePattern.FindStringSubmatch(base)
	if match == nil {
		return FileMeta{}, fmt.Errorf("%w: %s", ErrBadFilename, base)
	}

	field := func(group string) string {
		return match[filenamePattern.SubexpIndex(group)]
	}

	// The pattern guarantees the numeric fields parse.
	die, _ := strconv.Atoi(field("die"))
	chIn, _ := strconv.Atoi(field("chin"))
	chOut, _ := strconv.Atoi(field("chout"))
	temp, _ := strconv.ParseFloat(field("temperature"), 64)
	power, _ := strconv.ParseFloat(field("power"), 64)
	drive, _ := strconv.ParseFloat(field("drive"), 64)
	heater, _ := strconv.ParseFloat(field("heater"), 64)

	return FileMeta{
		DataType:        field("datatype"),
		Wafer:           field("wafer"),
		Die:             die,
		Cage:            field("cage"),
		Device:          field("device"),
		TemperatureC:    temp,
		ChannelIn:       chIn,
		ChannelOut:      chOut,
		PowerDBm:        power,
		DriveVoltageMV:  drive,
		HeaterVoltageMV: heater,
	}, nil
}
