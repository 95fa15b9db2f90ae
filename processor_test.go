package ekg

import (
	"errors"
	"testing"

	"ekg/Arrhythmia"
)

// 完整管线：600 BPM 合成心电应得到约 100 个心搏/10s 和接近 600 的均值心率
func TestAnalyze_SyntheticNormal(t *testing.T) {
	samples := GenerateSyntheticEKG(10, testRate, 600, 0.02, false)

	result, err := Analyze(samples, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Filtered) != len(samples) {
		t.Errorf("Filtered length mismatch: %d vs %d", len(result.Filtered), len(samples))
	}
	if len(result.Peaks) < 95 || len(result.Peaks) > 105 {
		t.Errorf("Expected ~100 beats, got %d", len(result.Peaks))
	}
	if len(result.RRIntervals) != len(result.Peaks)-1 {
		t.Errorf("RR count must be peaks-1: %d vs %d peaks", len(result.RRIntervals), len(result.Peaks))
	}
	if len(result.Labels) != len(result.Peaks) {
		t.Errorf("One label per beat expected: %d labels, %d peaks", len(result.Labels), len(result.Peaks))
	}
	if result.HeartRate.Mean < 550 || result.HeartRate.Mean > 650 {
		t.Errorf("Mean HR should be near 600 BPM, got %.1f", result.HeartRate.Mean)
	}
	if result.Report == nil {
		t.Fatal("Report missing")
	}
	if result.Report.TotalBeats != len(result.Peaks) {
		t.Errorf("Report beat count mismatch: %d vs %d", result.Report.TotalBeats, len(result.Peaks))
	}
	// 频谱交叉验证应与逐搏心率一致
	if result.SpectralBPM != 0 && (result.SpectralBPM < 550 || result.SpectralBPM > 650) {
		t.Errorf("Spectral estimate diverges: %.1f BPM", result.SpectralBPM)
	}
}

// 注入心律失常的记录应产生事件
func TestAnalyze_SyntheticArrhythmia(t *testing.T) {
	samples := GenerateSyntheticEKG(15, testRate, 600, 0.02, true)

	result, err := Analyze(samples, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Report.ArrhythmiasDetected == 0 {
		t.Error("Expected arrhythmia events in the injected recording")
	}
	if len(result.Report.ArrhythmiaDetails) != result.Report.ArrhythmiasDetected {
		t.Error("Detail list length must equal detected count")
	}
}

func TestAnalyze_EmptySignal(t *testing.T) {
	_, err := Analyze(nil, nil)
	var emptyErr *EmptySignalError
	if !errors.As(err, &emptyErr) {
		t.Errorf("Expected EmptySignalError, got %v", err)
	}
}

func TestAnalyze_InsufficientPeaks(t *testing.T) {
	// 平坦信号没有可检出的心搏
	_, err := Analyze(make([]float64, 2000), nil)
	var insuffErr *Arrhythmia.InsufficientDataError
	if !errors.As(err, &insuffErr) {
		t.Errorf("Expected InsufficientDataError, got %v", err)
	}
}

func TestAnalyze_InvalidFilterConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Filter.LowCutHz = 200
	cfg.Filter.HighCutHz = 100

	_, err := Analyze(generateSineWave(10, 2, testRate), cfg)
	var rangeErr *InvalidRangeError
	if !errors.As(err, &rangeErr) {
		t.Errorf("Expected InvalidRangeError, got %v", err)
	}
}
