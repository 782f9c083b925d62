package ansiart

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func solidImage(c color.Color, w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, dir string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, "card.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderDimensions(t *testing.T) {
	art := Render(solidImage(color.RGBA{200, 30, 30, 255}, 40, 60), 8, 5)

	lines := strings.Split(strings.TrimSuffix(art, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d rows, want 5", len(lines))
	}
	for i, line := range lines {
		if got := len([]rune(StripAnsi(line))); got != 8 {
			t.Errorf("row %d has %d visible cells, want 8", i, got)
		}
	}
	if !strings.Contains(art, "\x1b[38;2;") {
		t.Error("expected true-colour escape sequences")
	}
}

func TestRenderEmpty(t *testing.T) {
	if art := Render(solidImage(color.White, 4, 4), 0, 3); art != "" {
		t.Errorf("zero width rendered %q", art)
	}
}

func TestRenderFileAndCache(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, solidImage(color.RGBA{10, 20, 200, 255}, 16, 16))
	cacheDir := filepath.Join(dir, "cache")

	first, err := Cached(cacheDir, path, 4, 4)
	if err != nil {
		t.Fatalf("Cached: %v", err)
	}
	entries, err := os.ReadDir(cacheDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("cache entries = %v, %v; want one file", entries, err)
	}

	// Served from cache even once the source is gone
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	second, err := Cached(cacheDir, path, 4, 4)
	if err != nil {
		t.Fatalf("Cached from cache: %v", err)
	}
	if first != second {
		t.Error("cached art differs from the first render")
	}
}

func TestRenderFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := RenderFile(filepath.Join(dir, "missing.png"), 4, 4); err == nil {
		t.Error("expected an error for a missing file")
	}

	notImage := filepath.Join(dir, "notes.png")
	if err := os.WriteFile(notImage, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := RenderFile(notImage, 4, 4); err == nil {
		t.Error("expected a decode error")
	}
}

func TestStripAnsi(t *testing.T) {
	if got := StripAnsi("\x1b[38;2;1;2;3mA\x1b[0mB"); got != "AB" {
		t.Errorf("StripAnsi = %q, want AB", got)
	}
}
