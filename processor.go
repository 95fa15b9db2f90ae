package ekg

import "ekg/Arrhythmia"

// AnalysisResult 一次完整分析的不可变结果
// 各阶段只生成新切片，不就地修改输入；换一段信号重新调用 Analyze 即可，
// 不存在需要按顺序调用的可变中间状态
type AnalysisResult struct {
	SampleRate  int
	Raw         []float64
	Filtered    []float64
	Peaks       []int
	RRIntervals []int
	HeartRate   Arrhythmia.Stats
	Labels      []string // 每个 R 波一个标签，默认 "Normal"
	Report      *Arrhythmia.Report
	SpectralBPM float64 // 频谱交叉验证心率，0 表示未能估计
}

// Analyze 执行完整管线：带通滤波 -> R 波检测 -> RR 间期分析 ->
// 波形分割与形态分类 -> 报告聚合
// cfg 为 nil 时使用 DefaultConfig。R 波少于 2 个时返回 InsufficientDataError
func Analyze(samples []float64, cfg *Config) (*AnalysisResult, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if len(samples) == 0 {
		return nil, &EmptySignalError{Stage: "analysis"}
	}

	filtered, err := Condition(samples, cfg.SampleRate, cfg.Filter.LowCutHz, cfg.Filter.HighCutHz, cfg.Filter.Order)
	if err != nil {
		return nil, err
	}

	pd := NewPeakDetector(PeakDetectorConfig{
		SampleRate:    cfg.SampleRate,
		HeightFactor:  cfg.Detector.HeightFactor,
		AbsThreshold:  cfg.Detector.AbsThreshold,
		AutoThreshold: cfg.Detector.AutoThreshold,
		MinDistanceMs: cfg.Detector.MinDistanceMs,
	})
	peaks, err := pd.Detect(filtered)
	if err != nil {
		return nil, err
	}
	if len(peaks) < 2 {
		return nil, &Arrhythmia.InsufficientDataError{Needed: 2, Got: len(peaks)}
	}

	rr := RRIntervals(peaks)

	det := Arrhythmia.NewDetector(cfg.SampleRate)
	det.TachycardiaBPM = cfg.Rhythm.TachycardiaBPM
	det.BradycardiaBPM = cfg.Rhythm.BradycardiaBPM

	stats, err := det.HeartRateStats(rr)
	if err != nil {
		return nil, err
	}

	// 形态分类走截断策略：窗口数与 R 波数一致，
	// 不完整窗口由分类器的"上下文不足"分支兜底
	waveforms := SegmentWaveforms(samples, peaks, cfg.Segment.WindowBefore, cfg.Segment.WindowAfter)
	report := det.GenerateReport(rr, waveforms, peaks)
	labels := det.LabelBeats(peaks, rr)

	result := &AnalysisResult{
		SampleRate:  cfg.SampleRate,
		Raw:         samples,
		Filtered:    filtered,
		Peaks:       peaks,
		RRIntervals: rr,
		HeartRate:   stats,
		Labels:      labels,
		Report:      report,
	}

	re := NewRateEstimator(RateEstimatorConfig{
		SampleRate: cfg.SampleRate,
		FFTSize:    cfg.Spectrum.FFTSize,
		MinBPM:     cfg.Spectrum.MinBPM,
		MaxBPM:     cfg.Spectrum.MaxBPM,
	})
	if bpm, ok := re.Estimate(filtered); ok {
		result.SpectralBPM = bpm
	}

	return result, nil
}
