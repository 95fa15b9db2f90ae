package ekg

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempRecording(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Writing test file failed: %v", err)
	}
	return path
}

func TestLoadRecording_SingleColumn(t *testing.T) {
	path := writeTempRecording(t, "single.txt", "0.1\n0.5\n-0.2\n")
	samples, err := LoadRecording(path)
	if err != nil {
		t.Fatalf("LoadRecording failed: %v", err)
	}
	want := []float64{0.1, 0.5, -0.2}
	if len(samples) != len(want) {
		t.Fatalf("Expected %d samples, got %d", len(want), len(samples))
	}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("Sample %d = %v, want %v", i, samples[i], want[i])
		}
	}
}

// 两列数据 (时间, 幅值) 应取第二列
func TestLoadRecording_TwoColumns(t *testing.T) {
	path := writeTempRecording(t, "two.csv", "0.000,0.1\n0.001,0.5\n0.002,-0.2\n")
	samples, err := LoadRecording(path)
	if err != nil {
		t.Fatalf("LoadRecording failed: %v", err)
	}
	if len(samples) != 3 || samples[1] != 0.5 {
		t.Errorf("Should pick the second column: %v", samples)
	}
}

// 表头、注释和空行都应被跳过
func TestLoadRecording_SkipsHeaderAndComments(t *testing.T) {
	content := "# recorded 2026-08-25\ntime,ekg\n\n0.000,0.1\n0.001,0.5\n"
	path := writeTempRecording(t, "mixed.csv", content)
	samples, err := LoadRecording(path)
	if err != nil {
		t.Fatalf("LoadRecording failed: %v", err)
	}
	if len(samples) != 2 {
		t.Errorf("Expected 2 samples after skipping header lines, got %d: %v", len(samples), samples)
	}
}

// 分号和空白分隔也要能解析
func TestLoadRecording_AlternateSeparators(t *testing.T) {
	path := writeTempRecording(t, "sep.txt", "0.000;0.1\n0.001\t0.5\n0.002 0.9\n")
	samples, err := LoadRecording(path)
	if err != nil {
		t.Fatalf("LoadRecording failed: %v", err)
	}
	if len(samples) != 3 || samples[2] != 0.9 {
		t.Errorf("Separator handling broken: %v", samples)
	}
}

func TestLoadRecording_NoNumericData(t *testing.T) {
	path := writeTempRecording(t, "empty.csv", "# only comments\nheader,line\n")
	if _, err := LoadRecording(path); err == nil {
		t.Error("Expected error for a file without numeric samples")
	}
}

func TestLoadRecording_MissingFile(t *testing.T) {
	if _, err := LoadRecording(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("Expected error for a missing file")
	}
}
