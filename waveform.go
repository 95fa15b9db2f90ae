package ekg

// SegmentWaveforms 以每个 R 波为中心截取原始信号窗口 (截断策略)
// 越过信号边界的窗口在边界处截断并保留，因此输出数量恒等于 len(peaks)
// 报告路径使用此策略
func SegmentWaveforms(signal []float64, peaks []int, before, after int) [][]float64 {
	waveforms := make([][]float64, 0, len(peaks))
	for _, p := range peaks {
		start := p - before
		if start < 0 {
			start = 0
		}
		end := p + after
		if end > len(signal) {
			end = len(signal)
		}
		w := make([]float64, end-start)
		copy(w, signal[start:end])
		waveforms = append(waveforms, w)
	}
	return waveforms
}

// SegmentFixedWaveforms 固定长度策略：窗口必须完整 (长度 before+after)，
// 越界的窗口被丢弃。返回保留下来的窗口及其对应的 R 波下标，
// 便于把分类结果映射回原始峰序列
func SegmentFixedWaveforms(signal []float64, peaks []int, before, after int) ([][]float64, []int) {
	waveforms := make([][]float64, 0, len(peaks))
	kept := make([]int, 0, len(peaks))
	for _, p := range peaks {
		start := p - before
		end := p + after
		if start < 0 || end > len(signal) {
			continue
		}
		w := make([]float64, end-start)
		copy(w, signal[start:end])
		waveforms = append(waveforms, w)
		kept = append(kept, p)
	}
	return waveforms, kept
}

// AverageWaveform 对所有完整窗口逐点取平均，得到平均心搏形态
// (临床视图的叠加显示用)。没有完整窗口时返回 nil
func AverageWaveform(signal []float64, peaks []int, before, after int) []float64 {
	waveforms, _ := SegmentFixedWaveforms(signal, peaks, before, after)
	if len(waveforms) == 0 {
		return nil
	}
	avg := make([]float64, before+after)
	for _, w := range waveforms {
		for i, v := range w {
			avg[i] += v
		}
	}
	for i := range avg {
		avg[i] /= float64(len(waveforms))
	}
	return avg
}
