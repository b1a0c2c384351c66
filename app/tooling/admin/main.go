// This program performs administrative tasks against the chain a node
// keeps in storage. The node should be stopped while it runs.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/gossipchain/app/tooling/admin/commands"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/database/storage"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/gossipchain/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

type config struct {
	conf.Version
	Args  conf.Args
	State struct {
		GenesisPath string `conf:"default:zblock/genesis.json"`
		DBPath      string `conf:"default:zblock/blocks/"`
		Storage     string `conf:"default:disk,help:disk|leveldb"`
	}
}

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := config{
		Version: conf.Version{
			Build: build,
			Desc:  "gossip chain storage admin",
		},
	}

	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	gen, err := genesis.Load(cfg.State.GenesisPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("unable to load genesis: %w", err)
		}
		gen = genesis.Default()
	}

	strg, err := storage.Open(cfg.State.Storage, cfg.State.DBPath)
	if err != nil {
		return fmt.Errorf("unable to open storage: %w", err)
	}

	ev := func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...))
	}

	db, err := database.New(gen, strg, ev)
	if err != nil {
		strg.Close()
		return fmt.Errorf("unable to load chain: %w", err)
	}
	defer db.Close()

	return processCommands(os.Stdout, cfg.Args, db.Copy())
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(w io.Writer, args conf.Args, chain []database.Block) error {
	acct := database.AccountID(args.Num(1))

	switch args.Num(0) {
	case "bals":
		if err := commands.Balances(w, chain, acct); err != nil {
			return fmt.Errorf("getting balances: %w", err)
		}
	case "trans":
		if err := commands.Transactions(w, chain, acct); err != nil {
			return fmt.Errorf("getting transactions: %w", err)
		}
	default:
		fmt.Fprintln(w, "commands: bals [account] | trans [account]")
	}

	return nil
}
