package preferences

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func newTestFile(t *testing.T) *File {
	t.Helper()
	f, err := NewFile(filepath.Join(t.TempDir(), ".gsc-cli", "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func writeRaw(t *testing.T, f *File, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(f.Path()), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(f.Path(), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestNewFile(t *testing.T) {
	if _, err := NewFile(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string // empty means no file
		want    Preferences
	}{
		{
			name: "missing file",
			want: Default(),
		},
		{
			name:    "partial file layered over defaults",
			content: `{"defaultSite":"sc-domain:example.com","defaultRowLimit":25,"outputFormat":"json"}`,
			want: Preferences{
				DefaultSite:         "sc-domain:example.com",
				DefaultDimensions:   DefaultDimensions,
				DefaultMetrics:      DefaultMetrics,
				DefaultRowLimit:     25,
				DefaultStartDaysAgo: DefaultStartDaysAgo,
				DefaultEndDaysAgo:   DefaultEndDaysAgo,
				OutputFormat:        "json",
			},
		},
		{
			name:    "malformed JSON",
			content: `{"defaultRowLimit":`,
			want:    Default(),
		},
		{
			name:    "wrong type",
			content: `{"defaultRowLimit":"lots"}`,
			want:    Default(),
		},
		{
			name:    "invalid output format",
			content: `{"outputFormat":"xml"}`,
			want:    Default(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFile(t)
			if tt.content != "" {
				writeRaw(t, f, tt.content)
			}

			if got := f.Load(context.Background()); got != tt.want {
				t.Errorf("Load() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	f := newTestFile(t)
	prefs := Default()
	prefs.DefaultSite = "https://example.com/"
	prefs.DefaultDimensions = "query,page"

	if err := f.Save(context.Background(), prefs); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := f.Load(context.Background()); got != prefs {
		t.Errorf("Load() = %+v, want %+v", got, prefs)
	}

	data, err := os.ReadFile(f.Path())
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("saved file is not JSON: %v", err)
	}
	for _, key := range Keys() {
		if _, ok := raw[key]; !ok {
			t.Errorf("saved file lacks key %q", key)
		}
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(f.Path())
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("permissions = %04o, want 0600", perm)
		}
	}
}

func TestSaveTightensPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	f := newTestFile(t)
	writeRaw(t, f, "{}")
	if err := os.Chmod(f.Path(), 0644); err != nil {
		t.Fatal(err)
	}

	if err := f.Save(context.Background(), Default()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	info, err := os.Stat(f.Path())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %04o, want 0600", perm)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	f := newTestFile(t)
	prefs := Default()
	prefs.OutputFormat = "xml"

	if err := f.Save(context.Background(), prefs); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := os.Stat(f.Path()); !os.IsNotExist(err) {
		t.Errorf("invalid preferences were written, stat error = %v", err)
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		check   func(Preferences) bool
		wantErr string
	}{
		{key: "defaultSite", value: "sc-domain:example.com", check: func(p Preferences) bool { return p.DefaultSite == "sc-domain:example.com" }},
		{key: "defaultDimensions", value: "query,country", check: func(p Preferences) bool { return p.DefaultDimensions == "query,country" }},
		{key: "defaultMetrics", value: "clicks", check: func(p Preferences) bool { return p.DefaultMetrics == "clicks" }},
		{key: "defaultRowLimit", value: " 500 ", check: func(p Preferences) bool { return p.DefaultRowLimit == 500 }},
		{key: "defaultStartDaysAgo", value: "90", check: func(p Preferences) bool { return p.DefaultStartDaysAgo == 90 }},
		{key: "defaultEndDaysAgo", value: "0", check: func(p Preferences) bool { return p.DefaultEndDaysAgo == 0 }},
		{key: "outputFormat", value: "CSV", check: func(p Preferences) bool { return p.OutputFormat == "csv" }},
		{key: "outputFormat", value: "xml", wantErr: "invalid value for outputFormat"},
		{key: "defaultRowLimit", value: "ten", wantErr: "must be an integer"},
		{key: "defaultRowLimit", value: "0", wantErr: "invalid value for defaultRowLimit"},
		{key: "defaultStartDaysAgo", value: "-1", wantErr: "invalid value"},
		{key: "defaultMetrics", value: "", wantErr: "invalid value"},
		{key: "colour", value: "blue", wantErr: "unknown preference"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			prefs := Default()
			err := prefs.Set(tt.key, tt.value)

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Set() error = %v, want %q", err, tt.wantErr)
				}
				if prefs != Default() {
					t.Errorf("failed Set() modified preferences: %+v", prefs)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if !tt.check(prefs) {
				t.Errorf("Set(%q, %q) produced %+v", tt.key, tt.value, prefs)
			}
		})
	}
}

func TestDateRange(t *testing.T) {
	now := time.Date(2024, 3, 2, 23, 30, 0, 0, time.FixedZone("PST", -8*3600))
	start, end := Default().DateRange(now)

	// 23:30 PST is already March 3rd in UTC
	if start != "2024-02-02" {
		t.Errorf("start = %s, want 2024-02-02", start)
	}
	if end != "2024-02-29" {
		t.Errorf("end = %s, want 2024-02-29", end)
	}
}

func TestDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".gsc-cli", "config.json"); got != want {
		t.Errorf("DefaultPath() = %s, want %s", got, want)
	}
}
