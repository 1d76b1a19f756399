// ABOUTME: Shared initialization code for all modes (CLI, TUI, list)
// ABOUTME: Wires config, project loading and the editing core together

package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"cutroom/config"
	"cutroom/edit"
	"cutroom/history"
	"cutroom/media"
	"cutroom/playback"
	"cutroom/store"
	"cutroom/timeline"
)

var debugLog *log.Logger

// RunOptions contains command-line options for all modes
type RunOptions struct {
	ProjectPath string // timeline document on disk, mutually exclusive with StorePath+ProjectID
	StorePath   string // SQLite project store
	ProjectID   string // project to open from the store
	AssetsDir   string // media directory to probe and watch
	OutputPath  string
	DryRun      bool
	Simulate    bool // CLI mode: run a headless playback pass
	DebugLog    bool
}

// EditorContext contains the loaded project and the wired editing core
type EditorContext struct {
	Timeline     *timeline.Timeline
	Model        *timeline.Model
	Engine       *edit.Engine
	History      *history.Manager
	Scheduler    *playback.Scheduler
	Provider     *media.Provider
	Library      *media.Library
	Config       config.EditorConfig
	SharedConfig *config.SharedConfig
	Store        *store.Store // nil when editing a document file
}

// InitializeProject loads the project and builds the editing core around it
func InitializeProject(opts RunOptions) (*EditorContext, error) {
	cfg, _ := config.LoadConfig(config.GetConfigPath())

	sharedConfig := config.NewSharedConfig(cfg)

	tl, st, err := loadProject(opts)
	if err != nil {
		return nil, err
	}

	model := timeline.NewModel(cfg.MinClipDuration)
	model.SetTimeline(tl)

	hist := history.NewManager(cfg.MaxHistory, time.Duration(cfg.HistoryDebounceMs)*time.Millisecond, time.Now)
	hist.Push(model.Snapshot())
	hist.Flush()

	provider := media.NewProvider(time.Now, 0)

	sched := playback.NewScheduler(model, provider, playback.Tolerances{
		Play:  float64(cfg.PlayToleranceMs) / 1000,
		Scrub: float64(cfg.ScrubToleranceMs) / 1000,
	}, debugf)

	return &EditorContext{
		Timeline:     tl,
		Model:        model,
		Engine:       edit.NewEngine(model),
		History:      hist,
		Scheduler:    sched,
		Provider:     provider,
		Library:      media.NewLibrary(),
		Config:       cfg,
		SharedConfig: sharedConfig,
		Store:        st,
	}, nil
}

// SetupAssets probes every file in the assets directory and starts a
// watcher that invalidates cached metadata and provisioned elements when
// a source file changes on disk. Returns nil when no directory is set.
func (ec *EditorContext) SetupAssets(dir string) (*media.Watcher, error) {
	if dir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read assets directory: %w", err)
	}

	var paths []string

	for _, entry := range entries {
		if !entry.IsDir() {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	probed := ec.Library.ProbeAll(paths)
	debugf("[assets] probed %d of %d files in %s", len(probed), len(paths), dir)

	return media.WatchAssets(dir, func(path string) {
		ec.Library.Invalidate(path)

		if n := ec.Provider.InvalidatePath(path); n > 0 {
			debugf("[assets] dropped %d cached elements for %s", n, path)
		}
	}, debugf)
}

// loadProject opens the timeline from either a document file or the
// project store, depending on which options are set
func loadProject(opts RunOptions) (*timeline.Timeline, *store.Store, error) {
	if opts.StorePath != "" {
		st, err := store.Open(opts.StorePath)
		if err != nil {
			return nil, nil, err
		}

		if opts.ProjectID == "" {
			_ = st.Close()

			return nil, nil, errors.New("a project ID is required when opening from a store")
		}

		tl, err := st.LoadTimeline(opts.ProjectID)
		if err != nil {
			_ = st.Close()

			return nil, nil, err
		}

		return tl, st, nil
	}

	if opts.ProjectPath == "" {
		return nil, nil, errors.New("no project given")
	}

	tl, err := timeline.LoadDocument(opts.ProjectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load project: %w", err)
	}

	return tl, nil, nil
}

// SaveProject writes the current timeline back to wherever it came from
func (ec *EditorContext) SaveProject(opts RunOptions) error {
	tl := ec.Model.Snapshot()

	if ec.Store != nil {
		return ec.Store.SaveTimeline(tl)
	}

	outputPath := opts.ProjectPath
	if opts.OutputPath != "" {
		outputPath = opts.OutputPath
	}

	return timeline.SaveDocument(outputPath, tl)
}

// Close releases resources held by the context
func (ec *EditorContext) Close() {
	if ec.Store != nil {
		_ = ec.Store.Close()
	}
}

// SetupDebugLog initializes debug logging
func SetupDebugLog(filename string) error {
	if err := InitDebugLog(filename); err != nil {
		return fmt.Errorf("failed to initialize debug log: %w", err)
	}

	if filename == "cutroom-debug.log" {
		fileInfo, _ := os.Stdout.Stat()
		if (fileInfo.Mode() & os.ModeCharDevice) != 0 {
			fmt.Printf("Debug logging enabled: %s\n", filename)
		}
	}

	return nil
}

// InitDebugLog initializes debug logging
func InitDebugLog(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create debug log file: %w", err)
	}

	debugLog = log.New(f, "", log.Ltime|log.Lmicroseconds)

	return nil
}

// debugf logs debug messages if enabled
func debugf(format string, args ...interface{}) {
	if debugLog != nil {
		debugLog.Printf(format, args...)
	}
}

// truncate shortens string to maxLen, adding "..." if needed
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return s[:maxLen]
	}

	return s[:maxLen-3] + "..."
}
