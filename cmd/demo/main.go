package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comalice/chartpath"
	"github.com/comalice/chartpath/internal/core"
	"github.com/comalice/chartpath/internal/logging"
	"github.com/comalice/chartpath/internal/production"
)

func main() {
	b := chartpath.NewChartBuilder("traffic-light", "traffic", "red")
	b.State("red").Entry("lamp_red_on").Exit("lamp_red_off").On("TIMER", "green")
	b.State("green").Entry("lamp_green_on").Exit("lamp_green_off").On("TIMER", "yellow")
	b.State("yellow").Entry("lamp_yellow_on").Exit("lamp_yellow_off").On("TIMER", "red")
	b.Root().On("FAULT", "flashing")
	b.State("flashing").Entry("blink").On("TIMER", "flashing")

	chart, err := b.Build()
	if err != nil {
		panic(err)
	}

	resolver := chartpath.NewResolver(chart, core.WithLogger(logging.New(slog.LevelDebug)))
	visualizer := &production.DefaultVisualizer{}

	start, err := resolver.ResolveDefaultLeaf(chart.Root())
	if err != nil {
		panic(err)
	}
	current := start.ID

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	cycles := 0
	for {
		select {
		case <-ticker.C:
			event := "TIMER"
			if cycles == 9 {
				event = "FAULT"
			}
			plan, err := resolver.Plan(current, chartpath.NewEvent(event, nil))
			if err != nil {
				fmt.Printf("Plan error: %v\n", err)
				continue
			}
			fmt.Printf("\n--- Cycle %d (%s) ---\n", cycles+1, event)
			for _, step := range plan.Actions {
				fmt.Printf("  %s %v\n", step.Direction, step.Action)
			}
			fmt.Println("Current state:", plan.Leaf)
			fmt.Println("DOT:\n" + visualizer.ExportDOT(chart, plan.Path))
			current = plan.Leaf.ID
			cycles++
			if cycles >= 12 {
				fmt.Println("Demo complete after 12 cycles.")
				return
			}
		case <-sig:
			fmt.Println("\nShutting down gracefully...")
			return
		}
	}
}
