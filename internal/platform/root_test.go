package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindConfig(t *testing.T) {
	// /tmp/
	//   repo/ (.notely.yaml)
	//     subdir/
	//       nested/
	//   empty/
	//     .notely.yaml/ (directory, ignored)
	baseDir := t.TempDir()
	repoDir := filepath.Join(baseDir, "repo")
	subDir := filepath.Join(repoDir, "subdir")
	nestedDir := filepath.Join(subDir, "nested")
	emptyDir := filepath.Join(baseDir, "empty")

	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(emptyDir, ConfigFileName), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(repoDir, ConfigFileName), []byte("server: x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		startPath string
		want      string
		wantErr   bool
	}{
		{
			name:      "Start at Root",
			startPath: repoDir,
			want:      filepath.Join(repoDir, ConfigFileName),
		},
		{
			name:      "Start in Subdir",
			startPath: subDir,
			want:      filepath.Join(repoDir, ConfigFileName),
		},
		{
			name:      "Start Nested Deeply",
			startPath: nestedDir,
			want:      filepath.Join(repoDir, ConfigFileName),
		},
		{
			name:      "Directory Is Not A Config",
			startPath: emptyDir,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindConfig(tt.startPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("FindConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if filepath.Clean(got) != filepath.Clean(tt.want) {
				t.Errorf("FindConfig() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveStateDir(t *testing.T) {
	inTemp := filepath.Join(os.TempDir(), "already-safe")
	sandbox := filepath.Join(os.TempDir(), DevDirName)

	tests := []struct {
		name      string
		dir       string
		forceTemp bool
		want      string
	}{
		{"Not Forced", "/home/me/.local/state/notely", false, "/home/me/.local/state/notely"},
		{"Forced Outside Temp", "/home/me/.local/state/notely", true, filepath.Join(sandbox, "notely")},
		{"Forced Inside Temp", inTemp, true, inTemp},
		{"Forced Empty", "", true, filepath.Join(sandbox, "default")},
		{"Forced Dot", ".", true, filepath.Join(sandbox, "default")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveStateDir(tt.dir, tt.forceTemp); got != tt.want {
				t.Errorf("ResolveStateDir(%q, %v) = %q, want %q", tt.dir, tt.forceTemp, got, tt.want)
			}
		})
	}
}

func TestIsDevRun(t *testing.T) {
	if !IsDevRun() {
		t.Error("expected a test binary to be detected as a dev run")
	}
}
