package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/photondb/cliparse"
	"github.com/danielhkuo/photondb/db"
	"github.com/danielhkuo/photondb/export"
	"github.com/danielhkuo/photondb/ingest"
	"github.com/danielhkuo/photondb/store"
)

func main() {
	// Optional .env for PHOTONDB_PATH and friends
	_ = godotenv.Load()

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("command failed", "command", cfg.Command, "error", err)
		os.Exit(1)
	}
}

func run(cfg cliparse.Config) error {
	if cfg.Command == cliparse.CmdReset {
		conn, err := db.Reset(cfg.StorePath)
		if err != nil {
			return err
		}
		defer conn.Close()
		slog.Info("store reset", "path", cfg.StorePath)
		return nil
	}

	conn, err := db.Open(cfg.StorePath)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.CreateSchema(conn); err != nil {
		return err
	}
	st := store.New(conn)

	switch cfg.Command {
	case cliparse.CmdImport:
		imp := ingest.New(st, ingest.Options{
			DOE:           cfg.DOE,
			Operator:      cfg.Operator,
			SystemVersion: cfg.SystemVersion,
			Notes:         cfg.Notes,
			TargetRoot:    cfg.TargetRoot,
		})
		start := time.Now()
		result, err := imp.ImportFolder(cfg.Arg)
		if err != nil {
			return err
		}
		slog.Info("import complete",
			"imported", result.Imported,
			"skipped", len(result.Skipped),
			"elapsed", time.Since(start).Round(time.Millisecond))
		return printStats(st)

	case cliparse.CmdExport:
		if err := export.Workbook(st, cfg.Arg); err != nil {
			return err
		}
		slog.Info("export complete", "path", cfg.Arg)
		return nil

	case cliparse.CmdStats:
		return printStats(st)
	}
	return nil
}

func printStats(st *store.Store) error {
	stats, err := st.Stats()
	if err != nil {
		return err
	}
	for _, table := range db.Tables {
		fmt.Printf("  %-24s %d\n", table, stats[table])
	}
	return nil
}
