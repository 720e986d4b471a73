package cliparse

import (
	"errors"
	"flag"
	"os"
)

// Commands accepted on the command line.
const (
	CmdImport = "import"
	CmdExport = "export"
	CmdStats  = "stats"
	CmdReset  = "reset"
)

type Config struct {
	StorePath string

	Command string
	// Arg is the command's positional argument: the folder to import or
	// the workbook path to export to.
	Arg string

	// Import options
	DOE           string
	Operator      string
	SystemVersion string
	Notes         string
	TargetRoot    string
}

// ParseFlags validates flags and resolves the command surface.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("photondb", flag.ContinueOnError)

	fs.StringVar(&cfg.StorePath, "d", "", "Store path (default photondb.db, or PHOTONDB_PATH)")

	// Import options
	fs.StringVar(&cfg.DOE, "doe", "", "DOE identifier for imported DUTs")
	fs.StringVar(&cfg.Operator, "operator", "T&P", "Operator recorded on imported sessions")
	fs.StringVar(&cfg.SystemVersion, "system", "CM300v1.0", "Measurement system version")
	fs.StringVar(&cfg.Notes, "notes", "", "Notes recorded on imported sessions")
	fs.StringVar(&cfg.TargetRoot, "move", "", "Relocate imported files under this root")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.StorePath == "" {
		cfg.StorePath = os.Getenv("PHOTONDB_PATH")
	}
	if cfg.StorePath == "" {
		cfg.StorePath = "photondb.db"
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return Config{}, errors.New("command required: import <folder> | export <file.xlsx> | stats | reset")
	}
	cfg.Command = rest[0]

	switch cfg.Command {
	case CmdImport:
		if len(rest) < 2 {
			return Config{}, errors.New("import requires a folder path")
		}
		cfg.Arg = rest[1]
	case CmdExport:
		if len(rest) < 2 {
			return Config{}, errors.New("export requires an output path")
		}
		cfg.Arg = rest[1]
	case CmdStats, CmdReset:
	default:
		return Config{}, errors.New("unknown command: " + cfg.Command)
	}

	return cfg, nil
}
