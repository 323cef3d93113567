// Command simulator drives the Tomasulo multi-core simulator from a YAML
// configuration file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/swlpark/ece552/internal/config"
	"github.com/swlpark/ece552/internal/pipeline"
	"github.com/swlpark/ece552/internal/simulator"
)

func main() {
	configPath := flag.String("config", "configs/default.yaml", "Path to the configuration file")
	verbose := flag.Bool("v", false, "Enable verbose output")
	showPipeline := flag.Bool("show-pipeline", false, "Show the pipeline topology")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)
	if *verbose {
		logger.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	}

	logger.Println("Tomasulo Dynamic Scheduling Simulator")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	fmt.Println("\nConfiguration Summary:")
	fmt.Printf("	Cores: %d\n", cfg.NumCores)
	fmt.Printf("	Traces: %v\n", cfg.TracePaths)
	fmt.Printf("	IFQ Capacity: %d\n", cfg.IFQCapacity)
	fmt.Printf("	Reservation Stations: %d int, %d fp\n", cfg.ReservationStations.Int, cfg.ReservationStations.FP)
	fmt.Printf("	Functional Units: %d int, %d fp\n", cfg.FunctionalUnits.Int, cfg.FunctionalUnits.FP)
	fmt.Printf("	Latencies: %d int, %d fp\n", cfg.Latencies.Int, cfg.Latencies.FP)
	fmt.Printf("	Registers: %d\n", cfg.RegisterCount)

	if *showPipeline {
		top := pipeline.NewTopology(cfg.IFQCapacity, cfg.ReservationStations.Int, cfg.ReservationStations.FP,
			cfg.FunctionalUnits.Int, cfg.FunctionalUnits.FP)
		fmt.Println("\nPipeline Topology:")
		fmt.Printf("  %s\n", top.String())
	}

	sim, err := simulator.New(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize simulator: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		logger.Printf("Starting simulation for %d core(s)...", cfg.NumCores)
		done <- sim.Run()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Fatalf("Simulation failed: %v", err)
		}
	case <-sigChan:
		logger.Println("Received termination signal. Shutting down...")
		sim.Shutdown()
		<-done
		logger.Println("Simulation terminated successfully")
		return
	}

	stats := sim.GetStatistics()
	fmt.Println("\nSimulation Statistics:")
	fmt.Printf("	Total Cycles: %d\n", stats.TotalCycles)
	fmt.Printf("	Instructions Executed: %d\n", stats.InstructionsExecuted)
	fmt.Printf("	IPC: %.3f\n", stats.IPC)

	fmt.Println("\nCore Utilization:")
	for i, util := range stats.CoreUtilization {
		fmt.Printf("	Core %d: %.2f%%\n", i, util*100)
	}
}
