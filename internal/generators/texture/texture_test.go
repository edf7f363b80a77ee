package texture

import (
	"bytes"
	"context"
	"testing"

	"assetforge/internal/artifact"
	"assetforge/internal/generator"
	"assetforge/internal/param"
)

func render(t *testing.T, e generator.Entry, raw param.Raw) *artifact.Image {
	t.Helper()
	cfg := e.Descriptor.Fields.Validate(raw)
	a, err := e.Factory().Generate(context.Background(), generator.NewRequest(e.Descriptor.ID, cfg, nil))
	if err != nil {
		t.Fatalf("%s: %v", e.Descriptor.ID, err)
	}
	img, ok := a.(*artifact.Image)
	if !ok {
		t.Fatalf("%s: expected image, got %T", e.Descriptor.ID, a)
	}
	return img
}

func TestEntriesAreTextures(t *testing.T) {
	entries := Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Descriptor.Category != Category {
			t.Fatalf("%s: category %q", e.Descriptor.ID, e.Descriptor.Category)
		}
		if err := e.Descriptor.Fields.Check(); err != nil {
			t.Fatalf("%s: %v", e.Descriptor.ID, err)
		}
	}
}

func TestTexturesHonourSize(t *testing.T) {
	for _, e := range Entries() {
		img := render(t, e, param.Raw{"size": 128})
		if img.Width() != 128 || img.Height() != 128 {
			t.Fatalf("%s: got %dx%d", e.Descriptor.ID, img.Width(), img.Height())
		}
	}
}

func TestTexturesAreDeterministic(t *testing.T) {
	for _, e := range Entries() {
		a := render(t, e, param.Raw{"size": 128})
		b := render(t, e, param.Raw{"size": 128})
		if !bytes.Equal(a.Pix.Pix, b.Pix.Pix) {
			t.Fatalf("%s: pixels differ between identical configs", e.Descriptor.ID)
		}
	}
}

func TestCobblestoneStylesDiffer(t *testing.T) {
	e := Entries()[0]
	regular := render(t, e, param.Raw{"size": 128, "style": "regular"})
	dark := render(t, e, param.Raw{"size": 128, "style": "dark"})
	if bytes.Equal(regular.Pix.Pix, dark.Pix.Pix) {
		t.Fatalf("dark style should change pixels")
	}
}
