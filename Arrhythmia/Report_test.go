package Arrhythmia

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

// 已人工核对的样例：rr=[100,100,150,50]，仅第 3 个间期触发心动过速
// (1200 BPM > 700；其余间期都在 2 个标准差以内且不满足早搏/停搏条件)
func TestGenerateReport_KnownInput(t *testing.T) {
	d := NewDetector(1000)
	peaks := []int{100, 200, 300, 450, 500}
	rr := []int{100, 100, 150, 50}

	waveforms := make([][]float64, len(peaks))
	for i := range waveforms {
		w := make([]float64, 150)
		for j := range w {
			w[j] = math.Sin(2 * math.Pi * float64(j) / 150)
		}
		waveforms[i] = w
	}

	report := d.GenerateReport(rr, waveforms, peaks)

	if report.TotalBeats != 5 {
		t.Errorf("TotalBeats = %d, want 5", report.TotalBeats)
	}
	if report.ArrhythmiasDetected != 1 {
		t.Fatalf("ArrhythmiasDetected = %d, want 1: %v", report.ArrhythmiasDetected, report.ArrhythmiaDetails)
	}
	if report.ArrhythmiaCounts["Tachycardia"] != 1 {
		t.Errorf("Expected one Tachycardia in counts, got %v", report.ArrhythmiaCounts)
	}
	if report.ArrhythmiaDetails[0].Beat != 3 {
		t.Errorf("Event at wrong beat: %d", report.ArrhythmiaDetails[0].Beat)
	}
	if report.MeanHeartRate != 700 {
		t.Errorf("MeanHeartRate = %.1f, want 700 (mean of per-beat BPM)", report.MeanHeartRate)
	}
	if report.MinHeartRate != 400 || report.MaxHeartRate != 1200 {
		t.Errorf("Min/Max = %.1f/%.1f, want 400/1200", report.MinHeartRate, report.MaxHeartRate)
	}

	// 完整正弦窗口按当前 QRS 宽度规则全部标记为宽 QRS
	if report.AbnormalWaveforms != len(waveforms) {
		t.Errorf("AbnormalWaveforms = %d, want %d", report.AbnormalWaveforms, len(waveforms))
	}
	if len(report.WaveformDetails) != report.AbnormalWaveforms {
		t.Error("Waveform detail list length must equal abnormal count")
	}
}

// 无波形、无间期时报告应退化为零值而不是 NaN
func TestGenerateReport_Empty(t *testing.T) {
	d := NewDetector(1000)
	report := d.GenerateReport(nil, nil, nil)

	if report.TotalBeats != 0 || report.ArrhythmiasDetected != 0 || report.AbnormalWaveforms != 0 {
		t.Errorf("Empty input should yield zero counts: %+v", report)
	}
	if report.MeanHeartRate != 0 || report.HRStd != 0 {
		t.Errorf("Stats should be explicit zeros, got mean=%.2f std=%.2f", report.MeanHeartRate, report.HRStd)
	}
}

// 报告序列化后字段名必须与导出格式保持一致
func TestReport_JSONSchema(t *testing.T) {
	d := NewDetector(1000)
	report := d.GenerateReport([]int{100, 100, 50}, nil, []int{0, 100, 200, 250})

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	for _, key := range []string{
		"total_beats", "mean_heart_rate", "hr_std", "min_heart_rate", "max_heart_rate",
		"arrhythmias_detected", "arrhythmia_counts", "arrhythmia_details",
		"abnormal_waveforms", "waveform_details",
	} {
		if !strings.Contains(string(data), `"`+key+`"`) {
			t.Errorf("Missing JSON field %q in %s", key, data)
		}
	}
	// 事件类别以可读名称而非数字编码序列化
	if !strings.Contains(string(data), `"Tachycardia"`) {
		t.Errorf("Event type should serialize as its display name: %s", data)
	}
}
