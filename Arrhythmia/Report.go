package Arrhythmia

// WaveformLabel 形态异常明细：第 Beat 个波形窗口及其类别
type WaveformLabel struct {
	Beat int          `json:"beat_number"`
	Type WaveformType `json:"type"`
}

// Report 一次完整分析的聚合结果
// 每次 GenerateReport 都生成新值，构造后不再修改
// JSON 字段名与导出报告的历史格式保持一致
type Report struct {
	TotalBeats          int             `json:"total_beats"`
	MeanHeartRate       float64         `json:"mean_heart_rate"`
	HRStd               float64         `json:"hr_std"`
	MinHeartRate        float64         `json:"min_heart_rate"`
	MaxHeartRate        float64         `json:"max_heart_rate"`
	ArrhythmiasDetected int             `json:"arrhythmias_detected"`
	ArrhythmiaCounts    map[string]int  `json:"arrhythmia_counts"`
	ArrhythmiaDetails   []Event         `json:"arrhythmia_details"`
	AbnormalWaveforms   int             `json:"abnormal_waveforms"`
	WaveformDetails     []WaveformLabel `json:"waveform_details"`
}

// GenerateReport 汇总节律分析与逐搏形态分类 (ReportAggregator)
// 形态分类的窗口内 R 波位置默认取第一个波形长度的一半；
// 没有波形时退化为 100 (默认分割窗口的中点附近)
// 相同输入产生相同输出，无隐藏状态
func (d *Detector) GenerateReport(rr []int, waveforms [][]float64, peaks []int) *Report {
	events := d.AnalyzeRhythm(rr)

	peakIdx := 100
	if len(waveforms) > 0 {
		peakIdx = len(waveforms[0]) / 2
	}

	// 只记录异常形态，Normal 不进入明细
	var wfLabels []WaveformLabel
	for i, w := range waveforms {
		if t := ClassifyWaveform(w, peakIdx); t != WaveNormal {
			wfLabels = append(wfLabels, WaveformLabel{Beat: i, Type: t})
		}
	}

	counts := make(map[string]int)
	for _, ev := range events {
		counts[ev.Type.String()]++
	}

	report := &Report{
		TotalBeats:          len(peaks),
		ArrhythmiasDetected: len(events),
		ArrhythmiaCounts:    counts,
		ArrhythmiaDetails:   events,
		AbnormalWaveforms:   len(wfLabels),
		WaveformDetails:     wfLabels,
	}

	// 间期为空时统计量显式置零，不让除零结果混进报告
	if stats, err := d.HeartRateStats(rr); err == nil {
		report.MeanHeartRate = stats.Mean
		report.HRStd = stats.Std
		report.MinHeartRate = stats.Min
		report.MaxHeartRate = stats.Max
	}

	return report
}
