package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/puntos/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path to the local database file
//	-u string   default user name
//	-s          enable cloud sync
//	-k string   sync key selecting the remote document
//	-l int      history view limit
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-u", "-s", "-k", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to local database file")
	fs.StringVar(&cfg.DefaultUser, "u", cfg.DefaultUser, "default user name")
	fs.BoolVar(&cfg.SyncEnabled, "s", cfg.SyncEnabled, "enable cloud sync")
	fs.StringVar(&cfg.SyncKey, "k", cfg.SyncKey, "sync key selecting the remote document")
	fs.IntVar(&cfg.HistoryLimit, "l", cfg.HistoryLimit, "number of entries in the history view")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
