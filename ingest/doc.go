// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ingest maps folders of measurement files onto store rows.

# Filename Convention

Files are named positionally, underscore-delimited:

	{datatype}_{wafer}_die{die}_{cage}_{device}_{temp}C_ch_{chIn}_{chOut}_{power}dBm_pn_{voltage}mV_heat_{heatVoltage}_mV.csv

ParseFilename extracts the typed attribute set; names that do not match
yield ErrBadFilename and are skipped, counted, and reported - one bad file
never aborts a batch.

# Importing

Each imported file produces one upserted DUT, one session named after the
source folder, experimental conditions (temperature, drive voltage, heater
voltage), one data row, and channel/power data-info attributes. All writes
go through the store's upsert keys, so re-running the same folder leaves
every entity count unchanged.

With Options.TargetRoot set, files are relocated into an organized
root/wafer/doe/die{n}/cage/device/session/ tree after a successful import,
and the data row records the destination path.

# Spectral Files

ReadSpectrum parses the vendor CSV layout (sweep header rows, a sample
block between section sentinels) into wavelength/intensity samples with
wavelengths normalized to nm. For spectrum-typed files the sweep header
attributes are folded into the data-info rows.
*/
package ingest
