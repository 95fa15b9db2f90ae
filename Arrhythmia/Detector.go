package Arrhythmia

import (
	"encoding/json"
	"fmt"
	"math"
)

// ArrhythmiaType 节律异常类别 (基于 RR 间期时序)
type ArrhythmiaType int

const (
	Normal ArrhythmiaType = iota
	Tachycardia
	Bradycardia
	Irregular
	PrematureBeat
	Pause
)

// String 返回报告/标签中使用的显示名称
func (t ArrhythmiaType) String() string {
	switch t {
	case Tachycardia:
		return "Tachycardia"
	case Bradycardia:
		return "Bradycardia"
	case Irregular:
		return "Irregular Rhythm"
	case PrematureBeat:
		return "Premature Beat"
	case Pause:
		return "Pause/Block"
	default:
		return "Normal Sinus Rhythm"
	}
}

// MarshalJSON 按显示名称序列化，保持导出报告的字段值稳定
func (t ArrhythmiaType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON 从显示名称还原类别，保证会话文件可往返加载
func (t *ArrhythmiaType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "Tachycardia":
		*t = Tachycardia
	case "Bradycardia":
		*t = Bradycardia
	case "Irregular Rhythm":
		*t = Irregular
	case "Premature Beat":
		*t = PrematureBeat
	case "Pause/Block":
		*t = Pause
	case "Normal Sinus Rhythm":
		*t = Normal
	default:
		return fmt.Errorf("unknown arrhythmia type: %q", s)
	}
	return nil
}

// Event 一次节律异常事件
// Beat 指向 RR 间期序列中的位置 (0 起)，即第 i 个间期对应第 i 与 i+1 个 R 波之间
type Event struct {
	Type        ArrhythmiaType `json:"type"`
	Beat        int            `json:"beat_number"`
	Description string         `json:"description"`
}

// InsufficientDataError 表示 R 波数量不足以做统计
type InsufficientDataError struct {
	Needed int
	Got    int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d beats, got %d", e.Needed, e.Got)
}

// Stats 心率统计 (BPM)
type Stats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Detector 基于 RR 间期时序的节律异常判定
// 阈值按小鼠心率范围调定，不是临床级诊断
type Detector struct {
	SampleRate     int
	TachycardiaBPM float64
	BradycardiaBPM float64
}

// NewDetector 创建判定器，使用小鼠默认阈值 (400-700 BPM 为正常范围)
func NewDetector(sampleRate int) *Detector {
	return &Detector{
		SampleRate:     sampleRate,
		TachycardiaBPM: 700.0,
		BradycardiaBPM: 400.0,
	}
}

// AnalyzeRhythm 对每个 RR 间期独立套用全部规则，一个间期可触发多个事件
// 规则按固定顺序追加事件，LabelBeats 的"后者覆盖"语义依赖这个顺序：
//  1. 心动过速 (hr > TachycardiaBPM)，否则 2. 心动过缓 (hr < BradycardiaBPM)
//  3. 节律不齐 (|rr - mean| > 2*std，std 为 0 时跳过)
//  4. 早搏 (短间期后跟代偿间歇，最后一个间期不判)
//  5. 停搏 (rr > 1.5*mean)
//
// mean/std 取整段间期序列的全局基线，不使用滑动窗口
func (d *Detector) AnalyzeRhythm(rr []int) []Event {
	if len(rr) == 0 {
		return nil
	}

	rrMean, rrStd := intMeanStd(rr)

	var events []Event
	for i, v := range rr {
		hr := 60.0 * float64(d.SampleRate) / float64(v)

		if hr > d.TachycardiaBPM {
			events = append(events, Event{
				Type:        Tachycardia,
				Beat:        i,
				Description: fmt.Sprintf("Heart rate: %.1f BPM (elevated)", hr),
			})
		} else if hr < d.BradycardiaBPM {
			events = append(events, Event{
				Type:        Bradycardia,
				Beat:        i,
				Description: fmt.Sprintf("Heart rate: %.1f BPM (reduced)", hr),
			})
		}

		// std 为 0 (间期全等或样本不足) 时偏差判定无意义，显式跳过
		if rrStd > 0 && math.Abs(float64(v)-rrMean) > 2.0*rrStd {
			events = append(events, Event{
				Type:        Irregular,
				Beat:        i,
				Description: fmt.Sprintf("RR interval deviation: %.2f SD", math.Abs(float64(v)-rrMean)/rrStd),
			})
		}

		if i < len(rr)-1 && float64(v) < 0.7*rrMean && float64(rr[i+1]) > 1.3*rrMean {
			events = append(events, Event{
				Type:        PrematureBeat,
				Beat:        i,
				Description: "Premature beat detected with compensatory pause",
			})
		}

		if float64(v) > 1.5*rrMean {
			events = append(events, Event{
				Type:        Pause,
				Beat:        i,
				Description: fmt.Sprintf("Pause detected: %.1f ms", float64(v)/float64(d.SampleRate)*1000.0),
			})
		}
	}
	return events
}

// HeartRateStats 把 RR 间期换算为逐搏心率并统计 (BPM)
// 少于 2 个 R 波 (即没有间期) 时返回 InsufficientDataError
func (d *Detector) HeartRateStats(rr []int) (Stats, error) {
	if len(rr) < 1 {
		return Stats{}, &InsufficientDataError{Needed: 2, Got: len(rr) + 1}
	}

	hr := make([]float64, len(rr))
	for i, v := range rr {
		hr[i] = 60.0 * float64(d.SampleRate) / float64(v)
	}

	mean := 0.0
	min := hr[0]
	max := hr[0]
	for _, v := range hr {
		mean += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean /= float64(len(hr))

	variance := 0.0
	for _, v := range hr {
		dlt := v - mean
		variance += dlt * dlt
	}
	std := 0.0
	if len(hr) > 1 {
		std = math.Sqrt(variance / float64(len(hr)))
	}

	return Stats{Mean: mean, Std: std, Min: min, Max: max}, nil
}

// LabelBeats 为每个 R 波生成文本标签，默认 "Normal"
// 按 AnalyzeRhythm 的事件顺序覆盖写入：同一心搏命中多条规则时，
// 最后求值的规则决定最终标签
func (d *Detector) LabelBeats(peaks []int, rr []int) []string {
	labels := make([]string, len(peaks))
	for i := range labels {
		labels[i] = "Normal"
	}

	for _, ev := range d.AnalyzeRhythm(rr) {
		if ev.Beat < len(labels) {
			labels[ev.Beat] = ev.Type.String()
		}
	}
	return labels
}

// intMeanStd 整型序列的均值与总体标准差 (除以 N)
// 样本不足 2 个时标准差定义为 0
func intMeanStd(x []int) (mean, std float64) {
	if len(x) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range x {
		sum += float64(v)
	}
	mean = sum / float64(len(x))

	if len(x) < 2 {
		return mean, 0
	}
	variance := 0.0
	for _, v := range x {
		d := float64(v) - mean
		variance += d * d
	}
	return mean, math.Sqrt(variance / float64(len(x)))
}
