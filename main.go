// ABOUTME: Entry point for the cutroom timeline editor
// ABOUTME: Handles command-line parsing, profiling, and routing to CLI or TUI modes

// Package main provides the entry point for cutroom, a terminal-driven video timeline editor.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"cutroom/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile := flag.String("memprofile", "", "write memory profile to file")
	visual := flag.Bool("visual", false, "run in visual/interactive editor mode")
	debug := flag.Bool("debug", false, "enable debug logging to cutroom-debug.log")
	dryRun := flag.Bool("dry-run", false, "preview without writing changes")
	output := flag.String("output", "", "write the project to this file (default: overwrite input)")
	storePath := flag.String("store", "", "open the project from this SQLite store instead of a file")
	assetsDir := flag.String("assets", "", "media directory to probe and watch for changes")
	play := flag.Bool("play", false, "CLI mode: run a headless playback pass after the summary")
	list := flag.Bool("list", false, "list projects in the store and exit")
	flag.Parse()

	if *list {
		if *storePath == "" {
			fmt.Println("Usage: cutroom -list -store <projects.db>")

			return 1
		}

		if err := RunListProjects(*storePath); err != nil {
			log.Printf("List error: %v", err)

			return 1
		}

		return 0
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Println("Usage: cutroom [flags] <project.json>")
		fmt.Println("       cutroom [flags] -store projects.db <project-id>")
		fmt.Println("Example: cutroom -visual holiday-cut.json")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()

		return 1
	}

	opts := RunOptions{
		AssetsDir:  *assetsDir,
		OutputPath: *output,
		DryRun:     *dryRun,
		Simulate:   *play,
		DebugLog:   *debug,
	}

	if *storePath != "" {
		opts.StorePath = *storePath
		opts.ProjectID = args[0]
	} else {
		opts.ProjectPath = args[0]
	}

	if *cpuprofile != "" {
		stopCPUProfile := setupCPUProfile(*cpuprofile)
		defer stopCPUProfile()
	}

	if *memprofile != "" {
		defer writeMemoryProfile(*memprofile)
	}

	if *visual {
		if *debug {
			if err := SetupDebugLog("cutroom-debug.log"); err != nil {
				log.Printf("Failed to setup debug log: %v", err)

				return 1
			}
		}

		if err := runVisual(opts); err != nil {
			log.Printf("TUI error: %v", err)

			return 1
		}

		return 0
	}

	if err := RunCLI(opts); err != nil {
		log.Printf("CLI error: %v", err)

		return 1
	}

	return 0
}

// runVisual wires the editing core into the interactive editor
func runVisual(opts RunOptions) error {
	ec, err := InitializeProject(opts)
	if err != nil {
		return err
	}
	defer ec.Close()

	watcher, err := ec.SetupAssets(opts.AssetsDir)
	if err != nil {
		return err
	}

	if watcher != nil {
		defer func() { _ = watcher.Close() }()
	}

	projectName := ec.Timeline.ProjectID
	if projectName == "" {
		projectName = opts.ProjectPath
	}

	return tui.Run(tui.Options{
		ProjectName: projectName,
		DryRun:      opts.DryRun,
		DebugLog:    opts.DebugLog,
	}, tui.Dependencies{
		Model:        ec.Model,
		Engine:       ec.Engine,
		History:      ec.History,
		Transport:    ec.Scheduler,
		SharedConfig: ec.SharedConfig,
		Save:         func() error { return ec.SaveProject(opts) },
		Assets:       ec.Library.Assets,
		Forget:       ec.Provider.Forget,
		Debugf:       debugf,
	})
}

// setupCPUProfile starts CPU profiling, returns cleanup function
func setupCPUProfile(filename string) func() {
	f, err := os.Create(filename)
	if err != nil {
		log.Fatalf("could not create CPU profile: %v", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		log.Fatalf("could not start CPU profile: %v", err)
	}

	return func() {
		pprof.StopCPUProfile()

		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close CPU profile: %v", err)
		}
	}
}

// writeMemoryProfile writes memory profile to file
func writeMemoryProfile(filename string) {
	f, err := os.Create(filename)
	if err != nil {
		log.Printf("could not create memory profile: %v", err)

		return
	}

	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close memory profile: %v", err)
		}
	}()

	runtime.GC()

	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Printf("could not write memory profile: %v", err)
	}
}
