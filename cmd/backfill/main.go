// Command backfill rescans a range of Ethereum blocks for deposits through
// the regular ingestion path, then exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dwarvesf/casper-bridge-relayer/internal/server"
)

func main() {
	from := flag.Uint64("from", 0, "first block to scan; without --from/--to the trailing ETHEREUM_BACKFILL_BLOCKS window is scanned")
	to := flag.Uint64("to", 0, "last block to scan, inclusive")
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["from"] != set["to"] {
		fmt.Fprintln(os.Stderr, "--from and --to must be given together")
		os.Exit(2)
	}

	appConfig, logger, err := server.LoadConfig()
	if err != nil {
		logger.Fatal("[backfill][LoadConfig] invalid configuration", map[string]string{
			"error": err.Error(),
		})
	}

	app, err := server.NewApp(appConfig, logger)
	if err != nil {
		logger.Fatal("[backfill][NewApp] failed to init relayer", map[string]string{
			"error": err.Error(),
		})
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !set["from"] {
		err = app.Telemetry.BackfillEthereumDeposits(ctx)
	} else {
		err = app.Telemetry.BackfillEthereumRange(ctx, *from, *to)
	}
	if err != nil {
		logger.Error("[backfill] scan failed", map[string]string{
			"from":  fmt.Sprintf("%d", *from),
			"to":    fmt.Sprintf("%d", *to),
			"error": err.Error(),
		})
		app.Close()
		os.Exit(1)
	}

	logger.Info("[backfill] done")
}
