package ekg

import (
	"math"
	"math/rand"
)

// GenerateSyntheticEKG 生成模拟小鼠心电信号，用于测试和演示
// 基波为 R 波主分量，叠加相移的 P/T 波成分、QRS 高次谐波、
// 低频基线漂移和高斯噪声
// addArrhythmia 为 true 时注入两处早搏、一段停搏 (幅度塌陷) 和
// 一段 800 BPM 的心动过速区间
func GenerateSyntheticEKG(durationSec float64, sampleRate int, heartRateBPM, noiseLevel float64, addArrhythmia bool) []float64 {
	samples := int(durationSec * float64(sampleRate))
	hrHz := heartRateBPM / 60.0

	out := make([]float64, samples)
	for i := range out {
		t := float64(i) / float64(sampleRate)

		// R 波主分量
		v := 1.0 * math.Sin(2*math.Pi*hrHz*t)
		// P 波 (小幅值，相移)
		v += 0.15 * math.Sin(2*math.Pi*hrHz*t-0.3)
		// T 波 (中幅值，相移)
		v += 0.3 * math.Sin(2*math.Pi*hrHz*t+1.2)
		// QRS 高次谐波
		v += 0.1 * math.Sin(2*math.Pi*hrHz*5*t)
		// 基线漂移 (低频)
		v += 0.1 * math.Sin(2*math.Pi*0.2*t)

		if noiseLevel > 0 {
			v += noiseLevel * rand.NormFloat64()
		}
		out[i] = v
	}

	if addArrhythmia {
		// 早搏：在 30% 和 60% 处叠加一个提前的短波
		for _, frac := range []float64{0.3, 0.6} {
			idx := int(frac * float64(samples))
			if idx < samples-100 {
				for j := 0; j < 50; j++ {
					out[idx+j] += 0.5 * math.Sin(2*math.Pi*float64(j)/49.0)
				}
			}
		}

		// 停搏：45% 处 150ms 的幅度塌陷
		pauseIdx := int(0.45 * float64(samples))
		pauseLen := int(0.15 * float64(sampleRate))
		if pauseIdx+pauseLen < samples {
			for j := 0; j < pauseLen; j++ {
				out[pauseIdx+j] *= 0.3
			}
		}

		// 心动过速：80%-90% 区间替换为 800 BPM
		tachyStart := int(0.8 * float64(samples))
		tachyEnd := int(0.9 * float64(samples))
		fastHz := 800.0 / 60.0
		for i := tachyStart; i < tachyEnd; i++ {
			t := float64(i-tachyStart) / float64(sampleRate)
			out[i] = math.Sin(2*math.Pi*fastHz*t) + 0.3*math.Sin(2*math.Pi*fastHz*t+1.2)
		}
	}

	return out
}
