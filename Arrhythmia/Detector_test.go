package Arrhythmia

import (
	"encoding/json"
	"errors"
	"testing"
)

func constantRR(value, count int) []int {
	rr := make([]int, count)
	for i := range rr {
		rr[i] = value
	}
	return rr
}

// 恒定 100 采样间期 @1000Hz = 精确 600 BPM，不应产生任何事件
func TestAnalyzeRhythm_ConstantNormal(t *testing.T) {
	d := NewDetector(1000)
	events := d.AnalyzeRhythm(constantRR(100, 50))
	if len(events) != 0 {
		t.Errorf("Constant 600 BPM rhythm should produce no events, got %d: %v", len(events), events)
	}

	stats, err := d.HeartRateStats(constantRR(100, 50))
	if err != nil {
		t.Fatalf("HeartRateStats failed: %v", err)
	}
	if stats.Mean != 600 || stats.Min != 600 || stats.Max != 600 {
		t.Errorf("Expected exactly 600 BPM, got mean=%.2f min=%.2f max=%.2f", stats.Mean, stats.Min, stats.Max)
	}
	if stats.Std != 0 {
		t.Errorf("Constant rhythm should have zero std, got %.4f", stats.Std)
	}
}

// 70 采样间期 ≈ 857 BPM，每个间期都应触发心动过速
func TestAnalyzeRhythm_Tachycardia(t *testing.T) {
	d := NewDetector(1000)
	rr := constantRR(70, 50)
	events := d.AnalyzeRhythm(rr)

	count := 0
	for _, ev := range events {
		if ev.Type == Tachycardia {
			count++
		}
	}
	if count != len(rr) {
		t.Errorf("Expected one TACHYCARDIA per interval (%d), got %d", len(rr), count)
	}
}

// 200 采样间期 = 300 BPM，每个间期都应触发心动过缓
func TestAnalyzeRhythm_Bradycardia(t *testing.T) {
	d := NewDetector(1000)
	rr := constantRR(200, 50)
	events := d.AnalyzeRhythm(rr)

	count := 0
	for _, ev := range events {
		if ev.Type == Bradycardia {
			count++
		}
	}
	if count != len(rr) {
		t.Errorf("Expected one BRADYCARDIA per interval (%d), got %d", len(rr), count)
	}
}

// 短间期后跟代偿间歇 → 早搏
func TestAnalyzeRhythm_PrematureBeat(t *testing.T) {
	d := NewDetector(1000)
	rr := []int{100, 100, 100, 60, 140, 100, 100} // mean=100, 60<70 且 140>130
	events := d.AnalyzeRhythm(rr)

	found := false
	for _, ev := range events {
		if ev.Type == PrematureBeat {
			found = true
			if ev.Beat != 3 {
				t.Errorf("Premature beat at wrong index: %d", ev.Beat)
			}
		}
	}
	if !found {
		t.Error("Expected PREMATURE_BEAT event")
	}
}

// 一个异常长的间期可同时命中心动过缓、节律不齐和停搏
func TestAnalyzeRhythm_OverlappingRules(t *testing.T) {
	d := NewDetector(1000)
	rr := append(constantRR(100, 9), 200) // mean=110, std=30

	events := d.AnalyzeRhythm(rr)
	var kinds []ArrhythmiaType
	for _, ev := range events {
		if ev.Beat == 9 {
			kinds = append(kinds, ev.Type)
		}
	}
	want := []ArrhythmiaType{Bradycardia, Irregular, Pause}
	if len(kinds) != len(want) {
		t.Fatalf("Expected %d overlapping events on the long interval, got %v", len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("Rule evaluation order broken: got %v, want %v", kinds, want)
		}
	}
}

// 多规则命中时标签由最后求值的规则决定
func TestLabelBeats_LastMatchWins(t *testing.T) {
	d := NewDetector(1000)
	rr := append(constantRR(100, 9), 200)
	peaks := make([]int, len(rr)+1)

	labels := d.LabelBeats(peaks, rr)
	if len(labels) != len(peaks) {
		t.Fatalf("One label per beat expected: %d labels, %d peaks", len(labels), len(peaks))
	}
	if labels[9] != "Pause/Block" {
		t.Errorf("Overlapping beat should keep the last rule's label, got %q", labels[9])
	}
	if labels[0] != "Normal" {
		t.Errorf("Unremarkable beat should stay Normal, got %q", labels[0])
	}
	// 事件下标指向间期序列，最后一个 R 波没有对应间期，恒为 Normal
	if labels[len(labels)-1] != "Normal" {
		t.Errorf("Last beat has no interval, expected Normal, got %q", labels[len(labels)-1])
	}
}

// 单个间期时 std 定义为 0，偏差类规则静默跳过
func TestAnalyzeRhythm_SingleInterval(t *testing.T) {
	d := NewDetector(1000)
	events := d.AnalyzeRhythm([]int{100})
	for _, ev := range events {
		if ev.Type == Irregular {
			t.Error("Deviation rule must be skipped when std is undefined")
		}
	}
	if events := d.AnalyzeRhythm(nil); len(events) != 0 {
		t.Error("Empty interval sequence should yield no events")
	}
}

func TestHeartRateStats_InsufficientData(t *testing.T) {
	d := NewDetector(1000)
	_, err := d.HeartRateStats(nil)
	var insuffErr *InsufficientDataError
	if !errors.As(err, &insuffErr) {
		t.Errorf("Expected InsufficientDataError, got %v", err)
	}
}

// 事件以显示名称序列化后必须能还原，否则保存过的会话无法再加载
func TestEvent_JSONRoundTrip(t *testing.T) {
	for _, typ := range []ArrhythmiaType{Normal, Tachycardia, Bradycardia, Irregular, PrematureBeat, Pause} {
		in := Event{Type: typ, Beat: 7, Description: "test"}
		data, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("Marshal failed for %v: %v", typ, err)
		}
		var out Event
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("Unmarshal failed for %v: %v", typ, err)
		}
		if out != in {
			t.Errorf("Round trip changed event: %+v -> %+v", in, out)
		}
	}

	var bad ArrhythmiaType
	if err := json.Unmarshal([]byte(`"Flutter"`), &bad); err == nil {
		t.Error("Unknown type name should fail to unmarshal")
	}
}

func TestHeartRateStats_MinMax(t *testing.T) {
	d := NewDetector(1000)
	stats, err := d.HeartRateStats([]int{100, 200, 50}) // 600, 300, 1200 BPM
	if err != nil {
		t.Fatalf("HeartRateStats failed: %v", err)
	}
	if stats.Min != 300 || stats.Max != 1200 {
		t.Errorf("Wrong min/max: %.1f / %.1f", stats.Min, stats.Max)
	}
	if stats.Mean != 700 {
		t.Errorf("Wrong mean: %.1f", stats.Mean)
	}
}
