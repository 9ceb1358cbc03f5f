package risk

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestIsHighRisk_DefaultPhrases(t *testing.T) {
	d := NewDetector(nil)
	cases := []struct {
		in   string
		want bool
	}{
		{"I want to KILL MYSELF", true},
		{"sometimes i think about suicide", true},
		{"I Want To Die", true},
		{"thinking about self harm again", true},
		{"I just want to end my life.", true},
		{"I had a great day", false},
		{"", false},
		{"self-harm", false}, // hyphenated form is not in the list
	}
	for _, tc := range cases {
		if got := d.IsHighRisk(tc.in); got != tc.want {
			t.Errorf("IsHighRisk(%q) = %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewDetector_EmptyFallsBackToDefaults(t *testing.T) {
	d := NewDetector([]string{"", "   "})
	if !reflect.DeepEqual(d.Phrases(), DefaultPhrases) {
		t.Fatalf("Phrases() = %v; want defaults", d.Phrases())
	}
}

func TestNewDetector_CustomPhrasesAreFolded(t *testing.T) {
	d := NewDetector([]string{" No Way Out "})
	if !d.IsHighRisk("there is NO WAY OUT for me") {
		t.Fatalf("expected custom phrase match")
	}
	if d.IsHighRisk("I want to die") {
		t.Fatalf("custom list should replace defaults")
	}
}

func TestPhrases_ReturnsCopy(t *testing.T) {
	d := NewDetector(nil)
	p := d.Phrases()
	p[0] = "mutated"
	if d.Phrases()[0] == "mutated" {
		t.Fatalf("Phrases() must not expose internal slice")
	}
}

func TestLoadPhrases_ListAndMapping(t *testing.T) {
	dir := t.TempDir()

	list := filepath.Join(dir, "list.yaml")
	if err := os.WriteFile(list, []byte("- hopeless\n- give up\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := LoadPhrases(list)
	if err != nil || !reflect.DeepEqual(got, []string{"hopeless", "give up"}) {
		t.Fatalf("LoadPhrases(list) = %v, %v", got, err)
	}

	mapping := filepath.Join(dir, "map.yaml")
	if err := os.WriteFile(mapping, []byte("phrases:\n  - overdose\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err = LoadPhrases(mapping)
	if err != nil || !reflect.DeepEqual(got, []string{"overdose"}) {
		t.Fatalf("LoadPhrases(mapping) = %v, %v", got, err)
	}

	if _, err := LoadPhrases(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("phrases: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPhrases(bad); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFromConfig_MergesInlineAndFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "risk.yaml")
	if err := os.WriteFile(f, []byte("- overdose\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	d, err := FromConfig([]string{"hopeless"}, f)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if !d.IsHighRisk("I feel hopeless") || !d.IsHighRisk("thinking of an overdose") {
		t.Fatalf("expected both inline and file phrases to match")
	}

	d, err = FromConfig(nil, "")
	if err != nil || !d.IsHighRisk("suicide") {
		t.Fatalf("expected defaults with no config, err=%v", err)
	}

	if _, err := FromConfig(nil, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
