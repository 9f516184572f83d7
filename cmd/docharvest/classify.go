package main

import (
	"fmt"
	"slices"

	"github.com/fwojciec/docharvest"
)

// Run executes the classify command.
func (c *ClassifyCmd) Run(deps *Dependencies) error {
	cfg := deps.Config
	c.apply(&cfg)

	targets, err := c.targets(deps, cfg)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docharvest.ErrorMessage(err))
		return err
	}

	// Schedule order: priority, then first appearance.
	slices.SortStableFunc(targets, func(a, b docharvest.Target) int {
		return a.Priority - b.Priority
	})

	if c.URLs {
		for _, t := range targets {
			fmt.Fprintf(deps.Stdout, "%d  %-20s %s\n", t.Priority, t.Category, t.URL)
		}
		return nil
	}

	type count struct {
		category string
		priority int
		n        int
	}
	var counts []*count
	index := map[string]*count{}
	for _, t := range targets {
		ct, ok := index[t.Category]
		if !ok {
			ct = &count{category: t.Category, priority: t.Priority}
			index[t.Category] = ct
			counts = append(counts, ct)
		}
		ct.n++
	}

	fmt.Fprintf(deps.Stdout, "%d URLs in priority order\n", len(targets))
	for _, ct := range counts {
		fmt.Fprintf(deps.Stdout, "  %2d  %-20s %d\n", ct.priority, ct.category, ct.n)
	}
	return nil
}
