// ABOUTME: Asset library: probes media files for metadata and caches the results
// ABOUTME: Reads tags directly from files and fans out batch probing over the worker pool

package media

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/dhowden/tag"

	"cutroom/pool"
)

// Asset holds probed metadata for one media file
type Asset struct {
	Path     string  // file path as given
	Title    string  // from tags, falls back to the file name
	Artist   string  // from tags (empty if not available)
	Mime     string  // best-effort content type
	Duration float64 // seconds, 0 when the container doesn't expose it in tags
	ProbedAt time.Time
}

// Library caches probed assets by path. Probing reads tags straight
// from the file, the same way every asset is treated as a value by the
// editing core.
type Library struct {
	mu     sync.Mutex
	assets map[string]*Asset
	now    func() time.Time
}

// NewLibrary creates an empty asset library
func NewLibrary() *Library {
	return &Library{
		assets: make(map[string]*Asset),
		now:    time.Now,
	}
}

// Probe returns metadata for the file, cached after the first read
func (l *Library) Probe(path string) (*Asset, error) {
	l.mu.Lock()
	if a, ok := l.assets[path]; ok {
		l.mu.Unlock()

		return a, nil
	}
	l.mu.Unlock()

	a, err := probeFile(path, l.now())
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.assets[path] = a
	l.mu.Unlock()

	return a, nil
}

// ProbeAll probes many files in parallel over the worker pool. Files
// that fail to probe are skipped and reported in the returned map as
// absent; playback treats them as provisioning failures later.
func (l *Library) ProbeAll(paths []string) map[string]*Asset {
	results := make(map[string]*Asset, len(paths))

	var mu sync.Mutex

	p := pool.NewWorkerPool(len(paths))
	defer p.Close()

	for _, path := range paths {
		p.Submit(func() {
			a, err := l.Probe(path)
			if err != nil {
				return
			}

			mu.Lock()
			results[path] = a
			mu.Unlock()
		})
	}

	p.Wait()

	return results
}

// Invalidate drops the cached entry for a path, forcing a re-probe
func (l *Library) Invalidate(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.assets, path)
}

// Assets returns every cached asset, sorted by path for stable listings
func (l *Library) Assets() []*Asset {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*Asset, 0, len(l.assets))
	for _, a := range l.assets {
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})

	return out
}

// Len returns the number of cached assets
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.assets)
}

// probeFile reads metadata tags directly from the file
func probeFile(path string, probedAt time.Time) (*Asset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	title := metadata.Title()
	if title == "" {
		title = filepath.Base(path)
	}

	return &Asset{
		Path:     path,
		Title:    title,
		Artist:   metadata.Artist(),
		Mime:     mimeFor(metadata.FileType(), path),
		Duration: durationFromTags(metadata),
		ProbedAt: probedAt,
	}, nil
}

// mimeFor maps the detected container to a content type, falling back
// to the file extension
func mimeFor(ft tag.FileType, path string) string {
	switch ft {
	case tag.MP3:
		return "audio/mpeg"
	case tag.M4A, tag.M4B, tag.M4P, tag.FileType(tag.MP4):
		return "video/mp4"
	case tag.OGG:
		return "audio/ogg"
	case tag.FLAC:
		return "audio/flac"
	}

	if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
		return byExt
	}

	return "application/octet-stream"
}

// durationFromTags extracts a duration from raw tag fields when the
// container carries one (e.g. TLEN in ID3, milliseconds)
func durationFromTags(metadata tag.Metadata) float64 {
	raw := metadata.Raw()
	if raw == nil {
		return 0
	}

	for _, key := range []string{"TLEN", "LENGTH", "length"} {
		val, exists := raw[key]
		if !exists {
			continue
		}

		switch v := val.(type) {
		case string:
			if ms, err := strconv.ParseFloat(v, 64); err == nil && ms > 0 {
				return ms / 1000
			}
		case int:
			if v > 0 {
				return float64(v) / 1000
			}
		case float64:
			if v > 0 {
				return v / 1000
			}
		}
	}

	return 0
}
