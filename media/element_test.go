// ABOUTME: Tests for simulated media elements and the caching Provider
// ABOUTME: Uses a fake clock so playback position math is deterministic

package media

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"cutroom/timeline"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(5000, 0)}
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestElement_PositionAdvancesWhilePlaying(t *testing.T) {
	clock := newFakeClock()
	el := newElement(clock.now, 0)

	el.Seek(10)
	el.Play()
	clock.advance(2 * time.Second)

	if got := el.CurrentTime(); got != 12 {
		t.Errorf("currentTime = %.2f, want 12", got)
	}

	el.Pause()
	clock.advance(5 * time.Second)

	if got := el.CurrentTime(); got != 12 {
		t.Errorf("paused currentTime = %.2f, want frozen at 12", got)
	}
}

func TestElement_SeekWhilePlayingRebases(t *testing.T) {
	clock := newFakeClock()
	el := newElement(clock.now, 0)

	el.Play()
	clock.advance(3 * time.Second)
	el.Seek(1)
	clock.advance(time.Second)

	if got := el.CurrentTime(); got != 2 {
		t.Errorf("currentTime = %.2f, want 2 (seek rebases the anchor)", got)
	}
}

func TestElement_ReadyAfterDelay(t *testing.T) {
	clock := newFakeClock()
	el := newElement(clock.now, 100*time.Millisecond)

	if el.Ready() {
		t.Error("element ready before buffering delay")
	}

	clock.advance(200 * time.Millisecond)

	if !el.Ready() {
		t.Error("element not ready after buffering delay")
	}
}

func TestProvider_Idempotent(t *testing.T) {
	clock := newFakeClock()
	p := NewProvider(clock.now, 0)

	clip := timeline.Clip{ID: "c1"}

	h1, err := p.EnsureClipElement(clip)
	if err != nil {
		t.Fatal(err)
	}

	h2, err := p.EnsureClipElement(clip)
	if err != nil {
		t.Fatal(err)
	}

	if h1 != h2 {
		t.Error("repeated provisioning returned a different handle")
	}
}

func TestProvider_MissingSourceFails(t *testing.T) {
	p := NewProvider(nil, 0)

	clip := timeline.Clip{ID: "c1", FilePath: filepath.Join(t.TempDir(), "nope.mp4")}

	if _, err := p.EnsureClipElement(clip); err == nil {
		t.Error("provisioning a missing source should fail")
	}
}

func TestProvider_InvalidatePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.mp4")

	if err := os.WriteFile(path, []byte("not really media"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewProvider(nil, 0)

	clip := timeline.Clip{ID: "c1", FilePath: path}

	h1, err := p.EnsureClipElement(clip)
	if err != nil {
		t.Fatal(err)
	}

	if n := p.InvalidatePath(path); n != 1 {
		t.Fatalf("invalidated %d elements, want 1", n)
	}

	h2, err := p.EnsureClipElement(clip)
	if err != nil {
		t.Fatal(err)
	}

	if h1 == h2 {
		t.Error("invalidated path still served the cached element")
	}
}
