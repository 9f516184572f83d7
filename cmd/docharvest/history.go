package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/docharvest"
	"github.com/fwojciec/docharvest/sqlite"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	path := c.DB
	if path == "" {
		path = deps.Config.History.DB
	}
	if path == "" {
		err := docharvest.Errorf(docharvest.EINVALID, "no history database; pass --db or set history.db")
		fmt.Fprintf(deps.Stderr, "error: %s\n", docharvest.ErrorMessage(err))
		return err
	}

	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		return fmt.Errorf("open history database %q: %w", path, err)
	}
	defer db.Close()
	history := sqlite.NewHistoryWriter(db)

	if c.RunID != "" {
		report, err := history.FindRunByID(deps.Ctx, c.RunID)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docharvest.ErrorMessage(err))
			return err
		}
		printReport(deps.Stdout, report)
		return nil
	}

	runs, err := history.FindRuns(deps.Ctx, sqlite.RunFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docharvest.ErrorMessage(err))
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Use 'docharvest extract --history-db' to record one.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  ok %d  failed %d  complete %.1f%%\n",
			r.RunID, r.StartedAt.Local().Format(time.DateTime),
			r.Stats.Succeeded, r.Stats.Failed, r.CompletionRate)
	}
	return nil
}
