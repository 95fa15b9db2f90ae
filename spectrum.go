package ekg

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// RateEstimatorConfig 配置参数
type RateEstimatorConfig struct {
	SampleRate int
	FFTSize    int     // 建议 2048 或 4096
	MinBPM     float64 // 搜索下限，如 200 BPM
	MaxBPM     float64 // 搜索上限，如 900 BPM
}

// RateEstimator 频谱心率估计器
// 心搏在频谱上表现为基频峰 (600 BPM = 10Hz)，在心率频段内找主峰
// 即可得到与逐搏检测无关的心率交叉验证值
type RateEstimator struct {
	cfg         RateEstimatorConfig
	windowCache []float64
}

// NewRateEstimator 创建新实例
func NewRateEstimator(cfg RateEstimatorConfig) *RateEstimator {
	return &RateEstimator{
		cfg:         cfg,
		windowCache: window.Blackman(cfg.FFTSize),
	}
}

// Estimate 输入滤波后的信号，返回估计心率 (BPM)
// found: 数据不足或频段内无能量时为 false
func (re *RateEstimator) Estimate(samples []float64) (bpm float64, found bool) {
	if len(samples) < re.cfg.FFTSize {
		// 数据不足，无法计算
		return 0, false
	}

	// 1. 取最新的 FFTSize 个点，加窗
	input := samples[len(samples)-re.cfg.FFTSize:]
	windowed := make([]float64, len(input))
	for i, v := range input {
		windowed[i] = v * re.windowCache[i]
	}

	// 2. 执行 FFT
	spectrum := fft.FFTReal(windowed)

	// 3. 在心率频段内粗略寻峰
	binRes := float64(re.cfg.SampleRate) / float64(re.cfg.FFTSize)
	minBin := int(re.cfg.MinBPM / 60.0 / binRes)
	maxBin := int(re.cfg.MaxBPM / 60.0 / binRes)
	if minBin < 1 {
		minBin = 1 // 跳过直流分量
	}

	maxMag := 0.0
	maxIndex := -1
	for i := minBin; i <= maxBin && i < len(spectrum)/2; i++ {
		m := cmplx.Abs(spectrum[i])
		if m > maxMag {
			maxMag = m
			maxIndex = i
		}
	}
	if maxIndex <= 0 || maxMag == 0 {
		return 0, false
	}

	// 4. 抛物线插值细化峰位置
	freq := float64(maxIndex) * binRes
	if maxIndex < len(spectrum)-1 {
		y1 := cmplx.Abs(spectrum[maxIndex-1])
		y2 := maxMag
		y3 := cmplx.Abs(spectrum[maxIndex+1])

		denominator := 2 * (2*y2 - y1 - y3)
		if denominator != 0 {
			delta := (y3 - y1) / denominator
			freq = (float64(maxIndex) + delta) * binRes
		}
	}

	return freq * 60.0, true
}
