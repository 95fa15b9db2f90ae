package Arrhythmia

import (
	"encoding/json"
	"fmt"
)

// WaveformType 单个心搏波形的形态类别
type WaveformType int

const (
	WaveNormal WaveformType = iota
	WideQRS
	ElevatedST
	DepressedST
	InvertedT
)

func (t WaveformType) String() string {
	switch t {
	case WideQRS:
		return "Wide QRS"
	case ElevatedST:
		return "ST Elevation"
	case DepressedST:
		return "ST Depression"
	case InvertedT:
		return "T-wave Inversion"
	default:
		return "Normal"
	}
}

func (t WaveformType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON 从显示名称还原类别，保证会话文件可往返加载
func (t *WaveformType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "Wide QRS":
		*t = WideQRS
	case "ST Elevation":
		*t = ElevatedST
	case "ST Depression":
		*t = DepressedST
	case "T-wave Inversion":
		*t = InvertedT
	case "Normal":
		*t = WaveNormal
	default:
		return fmt.Errorf("unknown waveform type: %q", s)
	}
	return nil
}

// ClassifyWaveform 检查单个心搏窗口的形态异常
// peakIdx 是 R 波在窗口内的位置。按固定优先级判定，先命中者生效：
//  1. QRS 宽度 (peakIdx±30 裁剪后宽度 > 40)
//  2. ST 段偏移 (peakIdx+30 ~ +60 的均值相对 QRS 前基线偏移超过 ±0.1*max)
//  3. T 波倒置 (peakIdx+60 ~ +120 的均值 < -0.05*max)
//
// 窗口长度不足 peakIdx+50 时上下文不够，直接返回 Normal
//
// TODO: QRS 规则在窗口未被边界裁剪时恒为 60 > 40，等价于只要窗口完整就命中。
// 应改为按 R 波幅度比例测量实际复合波宽度，待确认原始阈值意图后再改
func ClassifyWaveform(waveform []float64, peakIdx int) WaveformType {
	if len(waveform) < peakIdx+50 {
		return WaveNormal
	}

	// QRS 复合波宽度
	qrsStart := peakIdx - 30
	if qrsStart < 0 {
		qrsStart = 0
	}
	qrsEnd := peakIdx + 30
	if qrsEnd > len(waveform) {
		qrsEnd = len(waveform)
	}
	if qrsEnd-qrsStart > 40 {
		return WideQRS
	}

	waveMax := waveform[0]
	for _, v := range waveform {
		if v > waveMax {
			waveMax = v
		}
	}

	// ST 段：QRS 结束后紧接的区域，相对 QRS 前的基线
	stStart := peakIdx + 30
	stEnd := peakIdx + 60
	if stEnd > len(waveform) {
		stEnd = len(waveform)
	}
	if stEnd > stStart {
		baseEnd := peakIdx - 50
		if baseEnd < 1 {
			baseEnd = 1
		}
		baseline := sliceMean(waveform[:baseEnd])
		shift := sliceMean(waveform[stStart:stEnd]) - baseline

		if shift > 0.1*waveMax {
			return ElevatedST
		}
		if shift < -0.1*waveMax {
			return DepressedST
		}
	}

	// T 波：ST 段之后的区域，均值显著为负视为倒置
	tStart := peakIdx + 60
	tEnd := peakIdx + 120
	if tEnd > len(waveform) {
		tEnd = len(waveform)
	}
	if tEnd > tStart && sliceMean(waveform[tStart:tEnd]) < -0.05*waveMax {
		return InvertedT
	}

	return WaveNormal
}

func sliceMean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}
