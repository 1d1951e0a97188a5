package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmallik/capline/internal/caption"
)

func TestDeriveKeyDeterminism(t *testing.T) {
	full := caption.TrimWindow{}
	trim := caption.TrimWindow{Start: 1.0, End: 2.0}

	if DeriveKey("hashA", full, "") != DeriveKey("hashA", full, "") {
		t.Error("same inputs produced different keys")
	}
	if DeriveKey("hashA", trim, "") == DeriveKey("hashA", full, "") {
		t.Error("trimmed and untrimmed keys collide")
	}
	if DeriveKey("hashA", trim, "sigX") == DeriveKey("hashA", trim, "") {
		t.Error("styled and unstyled keys collide")
	}
	if DeriveKey("hashA", full, "") == DeriveKey("hashB", full, "") {
		t.Error("different content hashes collide")
	}
}

func TestDeriveKeyTrimRounding(t *testing.T) {
	a := DeriveKey("hashA", caption.TrimWindow{Start: 1.0001, End: 2.0002}, "")
	b := DeriveKey("hashA", caption.TrimWindow{Start: 1.0, End: 2.0}, "")
	if a != b {
		t.Errorf("sub-millisecond trims should collide: %q vs %q", a, b)
	}
}

func TestDeriveKeyInvertedWindowMeansFull(t *testing.T) {
	inverted := caption.TrimWindow{Start: 5.0, End: 2.0}
	full := caption.TrimWindow{}
	if DeriveKey("hashA", inverted, "") != DeriveKey("hashA", full, "") {
		t.Error("an end <= start window should be treated as no trim")
	}
}

func TestStyleSignatureDependsOnFields(t *testing.T) {
	base := caption.Style{Family: "DejaVu-Sans", Size: 70, Color: "white"}

	if StyleSignature(base) != StyleSignature(base) {
		t.Error("signature is not deterministic")
	}

	variants := []caption.Style{
		{Family: "Arial", Size: 70, Color: "white"},
		{Family: "DejaVu-Sans", Size: 64, Color: "white"},
		{Family: "DejaVu-Sans", Size: 70, Color: "yellow"},
		{Family: "DejaVu-Sans", Size: 70, Color: "white", Weight: "bold"},
	}
	for _, v := range variants {
		if StyleSignature(v) == StyleSignature(base) {
			t.Errorf("style %+v should not collide with the base style", v)
		}
	}
}

func TestStyleSignatureLength(t *testing.T) {
	sig := StyleSignature(caption.Style{Family: "Arial", Size: 40})
	if len(sig) != signatureLength {
		t.Errorf("expected %d hex chars, got %d", signatureLength, len(sig))
	}
}

func TestStyleSignatureTracksFontFileMtime(t *testing.T) {
	dir := t.TempDir()
	fontPath := filepath.Join(dir, "custom.ttf")
	if err := os.WriteFile(fontPath, []byte("v1"), 0644); err != nil {
		t.Fatalf("failed to write font file: %v", err)
	}

	style := caption.Style{Family: "Custom", Size: 70, Path: fontPath}
	before := StyleSignature(style)

	newTime := time.Now().Add(time.Hour)
	if err := os.Chtimes(fontPath, newTime, newTime); err != nil {
		t.Fatalf("failed to bump mtime: %v", err)
	}

	if after := StyleSignature(style); after == before {
		t.Error("signature should change when the font file changes on disk")
	}
}
