package archprobe

import (
	"strings"
	"testing"
)

func TestDetectHostFeatures(t *testing.T) {
	f := DetectHostFeatures()
	s := f.String()
	if s == "" {
		t.Error("Feature string must never be empty")
	}

	// AVX2 without AVX would mean the detection wiring is wrong
	if f.HasAVX2 && !f.HasAVX {
		t.Error("AVX2 reported without AVX")
	}
}

func TestFeatureString(t *testing.T) {
	f := HostFeatures{HasAVX: true, HasFMA: true}
	s := f.String()
	if !strings.Contains(s, "AVX") || !strings.Contains(s, "FMA") {
		t.Errorf("Feature string %q missing expected features", s)
	}

	if got := (HostFeatures{}).String(); got != "none" {
		t.Errorf("Empty feature set string = %q, want %q", got, "none")
	}
}
