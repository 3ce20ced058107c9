// Command actorctl is a small diagnostics CLI: it boots a Stage, spawns
// a handful of counter actors, increments each a few times, induces one
// failure on the last actor, and prints each actor's value and the
// resulting Directory shard occupancy as two tables.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/d-led/domoactors/actor"
	"github.com/d-led/domoactors/config"
	"github.com/d-led/domoactors/examples/counter"
	"github.com/d-led/domoactors/internal/obslog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "actorctl:", err)
		os.Exit(1)
	}
}

func run() error {
	logger, flush, err := obslog.New()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer flush()

	stage := actor.NewStage(
		actor.WithLogger(logger),
		actor.WithConfig(config.Small()),
	)
	defer stage.Close().Wait()

	const population = 8
	proxies := make([]*counter.Proxy, population)
	for i := range proxies {
		def := actor.NewDefinition(fmt.Sprintf("counter-%d", i), counter.NewCounter)
		proxies[i] = counter.NewProxy(stage.ActorFor(def))
	}

	for i, p := range proxies {
		for n := 0; n < i+1; n++ {
			if _, err := p.Increment(1); err != nil {
				logger.Warnw("increment failed", "actor", p.Address().String(), "error", err)
			}
		}
	}

	// Induce one failure on the last actor and give its restart a moment
	// to land before reading the directory snapshot.
	if err := proxies[population-1].Fail(); err != nil {
		logger.Infow("induced failure observed", "actor", proxies[population-1].Address().String(), "error", err)
	}
	time.Sleep(10 * time.Millisecond)

	printValues(proxies)
	printDirectoryStats(stage)

	return nil
}

func printValues(proxies []*counter.Proxy) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Address", "Value"})
	for _, p := range proxies {
		value, err := p.GetValue()
		if err != nil {
			table.Append([]string{p.Address().String(), "error: " + err.Error()})
			continue
		}
		table.Append([]string{p.Address().String(), fmt.Sprintf("%d", value)})
	}
	table.Render()
}

func printDirectoryStats(stage *actor.Stage) {
	stats := stage.DirectoryStats()
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Shard", "Live Cells"})
	for i, count := range stats {
		table.Append([]string{fmt.Sprintf("%d", i), fmt.Sprintf("%d", count)})
	}
	table.Render()
}
