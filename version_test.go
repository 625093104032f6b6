package archprobe

import "testing"

func TestVersion(t *testing.T) {
	// Inside the module's own test binary archprobe is the main module,
	// not a dependency, so Version reports empty strings.
	version, sum := Version()
	if version != "" {
		t.Errorf("Version() version = %q, want empty in module test build", version)
	}
	if sum != "" {
		t.Errorf("Version() sum = %q, want empty in module test build", sum)
	}
}
