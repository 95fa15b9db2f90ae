package ekg

import (
	"math"
	"sort"
)

// PeakDetectorConfig 配置参数
type PeakDetectorConfig struct {
	SampleRate    int
	HeightFactor  float64 // 幅度比例阈值 (默认模式)。threshold = max(signal) * HeightFactor
	AbsThreshold  float64 // 绝对阈值。> 0 时优先生效
	AutoThreshold bool    // 统计阈值模式。threshold = mean + 0.5*std
	MinDistanceMs float64 // 不应期 (毫秒)，转换为采样点后作为峰间最小距离
}

// PeakDetector 在滤波后的心电信号中定位 R 波 (心搏) 位置
type PeakDetector struct {
	cfg PeakDetectorConfig
}

// NewPeakDetector 创建新实例
func NewPeakDetector(cfg PeakDetectorConfig) *PeakDetector {
	return &PeakDetector{cfg: cfg}
}

// Threshold 计算当前配置下的检测阈值
// 三种模式优先级: 绝对阈值 > 统计阈值 (mean + 0.5*std) > 幅度比例 (max * factor)
func (pd *PeakDetector) Threshold(filtered []float64) float64 {
	if pd.cfg.AbsThreshold > 0 {
		return pd.cfg.AbsThreshold
	}
	if pd.cfg.AutoThreshold {
		m := meanFloat(filtered)
		return m + 0.5*stdFloat(filtered, m)
	}
	max := math.Inf(-1)
	for _, v := range filtered {
		if v > max {
			max = v
		}
	}
	return max * pd.cfg.HeightFactor
}

// Detect 返回所有 R 波的采样点下标，严格递增且不重复
// 没有采样点超过阈值时返回空结果 (不是错误)；输入为空时返回 EmptySignalError
func (pd *PeakDetector) Detect(filtered []float64) ([]int, error) {
	if len(filtered) == 0 {
		return nil, &EmptySignalError{Stage: "peak detection"}
	}

	threshold := pd.Threshold(filtered)

	minDist := int(pd.cfg.MinDistanceMs / 1000.0 * float64(pd.cfg.SampleRate))
	if minDist < 1 {
		minDist = 1
	}

	// 1. 收集所有超过阈值的局部极大值
	// 平台 (连续相等) 只取第一个点
	var candidates []int
	for i := 1; i < len(filtered)-1; i++ {
		if filtered[i] >= threshold && filtered[i] > filtered[i-1] && filtered[i] >= filtered[i+1] {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return []int{}, nil
	}

	// 2. 不应期抑制：按幅度从高到低贪心保留，
	// 每保留一个峰，抑制其两侧 minDist 范围内的其余候选
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return filtered[candidates[order[a]]] > filtered[candidates[order[b]]]
	})

	keep := make([]bool, len(candidates))
	for i := range keep {
		keep[i] = true
	}
	for _, j := range order {
		if !keep[j] {
			continue
		}
		// 向左抑制
		for k := j - 1; k >= 0 && candidates[j]-candidates[k] < minDist; k-- {
			keep[k] = false
		}
		// 向右抑制
		for k := j + 1; k < len(candidates) && candidates[k]-candidates[j] < minDist; k++ {
			keep[k] = false
		}
	}

	peaks := make([]int, 0, len(candidates))
	for i, c := range candidates {
		if keep[i] {
			peaks = append(peaks, c)
		}
	}
	return peaks, nil
}

// RRIntervals 由相邻 R 波下标差得到 RR 间期序列 (采样点)
// len(rr) == len(peaks) - 1；peaks 为空或单个时返回空序列
func RRIntervals(peaks []int) []int {
	if len(peaks) < 2 {
		return []int{}
	}
	rr := make([]int, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		rr[i-1] = peaks[i] - peaks[i-1]
	}
	return rr
}

func meanFloat(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

// stdFloat 总体标准差 (除以 N)
func stdFloat(x []float64, mean float64) float64 {
	if len(x) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(x)))
}
