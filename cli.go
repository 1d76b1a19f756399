// ABOUTME: CLI mode implementation for non-interactive project inspection
// ABOUTME: Prints track and clip tables and handles document re-export

package main

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"cutroom/store"
	"cutroom/timeline"
)

// RunCLI prints a project summary and optionally re-exports the document
func RunCLI(opts RunOptions) error {
	if opts.DebugLog {
		if err := SetupDebugLog("cutroom-debug.log"); err != nil {
			return err
		}
	}

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

	printSummary(ec)

	if ec.Library.Len() > 0 {
		printAssets(ec)
	}

	if opts.Simulate {
		simulatePlayback(ec)
	}

	if opts.DryRun {
		fmt.Println("\n--dry-run mode: project not modified")

		return nil
	}

	if opts.OutputPath != "" {
		fmt.Printf("\nWriting project to: %s\n", opts.OutputPath)

		if err := timeline.SaveDocument(opts.OutputPath, ec.Model.Snapshot()); err != nil {
			return fmt.Errorf("failed to write project: %w", err)
		}

		fmt.Println("Done!")
	}

	return nil
}

// printSummary writes the track and clip tables to stdout
func printSummary(ec *EditorContext) {
	tl := ec.Model.Snapshot()

	fmt.Printf("Project: %s\n", tl.ProjectID)
	fmt.Printf("Output:  %dx%d @ %.3g fps (%s)\n", tl.Output.Width, tl.Output.Height, tl.Output.FPS, tl.Output.Format)
	fmt.Printf("Length:  %s across %d clips\n\n", FormatTimecode(ec.Model.TotalDuration()), ec.Model.ClipCount())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "Track\tType\tClip\tPosition\tDuration\tSource In\tSource Out\tFile"); err != nil {
		log.Printf("Warning: failed to write header: %v", err)
	}

	if _, err := fmt.Fprintln(w, "-----\t----\t----\t--------\t--------\t---------\t----------\t----"); err != nil {
		log.Printf("Warning: failed to write separator: %v", err)
	}

	for _, index := range ec.Model.TrackIndices() {
		track := ec.Model.Track(index)
		if track == nil {
			continue
		}

		for _, clip := range ec.Model.TrackClips(index) {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				track.Name,
				track.Type,
				truncate(clip.ID, 12),
				FormatTimecode(clip.Position),
				FormatTimecode(clip.Duration()),
				FormatTimecode(clip.Start),
				FormatTimecode(clip.End),
				truncate(clip.FilePath, 40),
			); err != nil {
				log.Printf("Warning: failed to write clip %s: %v", clip.ID, err)
			}
		}
	}

	if err := w.Flush(); err != nil {
		log.Printf("Warning: failed to flush output: %v", err)
	}
}

// printAssets writes the probed media table to stdout
func printAssets(ec *EditorContext) {
	fmt.Printf("\nAssets: %d probed\n\n", ec.Library.Len())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "Title\tArtist\tDuration\tType\tFile"); err != nil {
		log.Printf("Warning: failed to write header: %v", err)
	}

	if _, err := fmt.Fprintln(w, "-----\t------\t--------\t----\t----"); err != nil {
		log.Printf("Warning: failed to write separator: %v", err)
	}

	for _, a := range ec.Library.Assets() {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncate(a.Title, 30),
			truncate(a.Artist, 20),
			FormatTimecode(a.Duration),
			a.Mime,
			truncate(a.Path, 40),
		); err != nil {
			log.Printf("Warning: failed to write asset %s: %v", a.Path, err)
		}
	}

	if err := w.Flush(); err != nil {
		log.Printf("Warning: failed to flush output: %v", err)
	}
}

// simulatePlayback runs a headless pass over the whole timeline,
// stepping the scheduler the way the TUI tick loop would. Useful for
// checking that every clip provisions and plays without opening the
// editor.
func simulatePlayback(ec *EditorContext) {
	total := ec.Model.TotalDuration()
	if total == 0 {
		fmt.Println("\nNothing to play.")

		return
	}

	step := float64(ec.Config.FrameBudgetMs) / 1000

	fmt.Printf("\nSimulating playback (%s at %dms steps)...\n", FormatTimecode(total), ec.Config.FrameBudgetMs)

	ec.Scheduler.PlayAll()

	peak := 0

	for t := step; ; t += step {
		ec.Scheduler.SyncClipsAtTime(t, false)

		if n := ec.Scheduler.ActiveHandleCount(); n > peak {
			peak = n
		}

		if !ec.Scheduler.IsPlaying() {
			break
		}

		// Let async provisioning land between ticks
		time.Sleep(time.Millisecond)
	}

	state := ec.Scheduler.State()
	fmt.Printf("Stopped at %s, peak concurrent clips: %d\n", FormatTimecode(state.CurrentTime), peak)
}

// RunListProjects prints every project in the store, most recent first
func RunListProjects(storePath string) error {
	st, err := store.Open(storePath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	infos, err := st.ListProjects()
	if err != nil {
		return err
	}

	if len(infos) == 0 {
		fmt.Println("No projects in store.")

		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "Project\tTracks\tClips\tUpdated"); err != nil {
		log.Printf("Warning: failed to write header: %v", err)
	}

	for _, info := range infos {
		if _, err := fmt.Fprintf(w, "%s\t%d\t%d\t%s\n",
			info.ID, info.Tracks, info.Clips, info.UpdatedAt.Format("2006-01-02 15:04"),
		); err != nil {
			log.Printf("Warning: failed to write project %s: %v", info.ID, err)
		}
	}

	if err := w.Flush(); err != nil {
		log.Printf("Warning: failed to flush output: %v", err)
	}

	return nil
}
