package ekg

import "math"

// BiquadFilter 表示一个二阶 IIR 滤波器节
// 用于级联实现高阶滤波器
type BiquadFilter struct {
	// 系数
	a0, a1, a2, b1, b2 float64
	// 状态 (延迟线)
	z1, z2 float64
}

// Process 处理单个采样点
func (f *BiquadFilter) Process(in float64) float64 {
	out := in*f.a0 + f.z1
	f.z1 = in*f.a1 - out*f.b1 + f.z2
	f.z2 = in*f.a2 - out*f.b2
	return out
}

// Reset 清空延迟线状态
func (f *BiquadFilter) Reset() {
	f.z1 = 0
	f.z2 = 0
}

// ButterworthFilter 表示一个由多个 Biquad 节级联组成的巴特沃斯滤波器
type ButterworthFilter struct {
	sections []*BiquadFilter
	order    int
}

// newButterworthSections 使用双线性变换从模拟原型计算各二阶节的系数
// highpass=false 时为低通，true 时为高通 (分母相同，分子不同)
func newButterworthSections(order int, sampleRate, cutoffFreq float64, highpass bool) []*BiquadFilter {
	// 限制截止频率以防止 Nyquist 频率附近的数值不稳定
	// 如果 cutoffFreq 接近 sampleRate/2，math.Tan 会趋向无穷大
	if cutoffFreq >= sampleRate*0.499 {
		cutoffFreq = sampleRate * 0.499
	}

	sections := make([]*BiquadFilter, order/2)

	// 1. 预畸变截止频率
	w := 2.0 * sampleRate * math.Tan(math.Pi*cutoffFreq/sampleRate)

	// 2. 计算每个二阶节的系数
	for i := 0; i < order/2; i++ {
		// 级联顺序优化：将 Q 值较低的节放在前面 (Low Q -> High Q)
		poleIdx := (order/2 - 1) - i

		// 极点角度
		theta := math.Pi * (2.0*float64(poleIdx) + 1.0) / (2.0 * float64(order))

		// 模拟原型极点
		p_re := -w * math.Sin(theta)
		p_im := w * math.Cos(theta)

		// 双线性变换
		// alpha 是分母 z^0 项系数: K^2 - 2*K*p_re + |p|^2 (p_re 为负，故 -2*K*p_re 为正)
		alpha := 4.0*sampleRate*sampleRate - 4.0*sampleRate*p_re + p_re*p_re + p_im*p_im

		b1 := (-8.0*sampleRate*sampleRate + 2.0*(p_re*p_re+p_im*p_im)) / alpha
		b2 := (4.0*sampleRate*sampleRate + 4.0*sampleRate*p_re + p_re*p_re + p_im*p_im) / alpha

		var a0, a1, a2 float64
		if highpass {
			// 高通原型分子为 s^2，双线性变换后得 K^2 * (1 - z^-1)^2
			a0 = (4.0 * sampleRate * sampleRate) / alpha
			a1 = (-8.0 * sampleRate * sampleRate) / alpha
			a2 = (4.0 * sampleRate * sampleRate) / alpha
		} else {
			a0 = (w * w) / alpha
			a1 = (2.0 * w * w) / alpha
			a2 = (w * w) / alpha
		}

		sections[i] = &BiquadFilter{
			a0: a0, a1: a1, a2: a2,
			b1: b1, b2: b2,
		}
	}

	return sections
}

// NewButterworthLowpass 创建一个新的 N 阶巴特沃斯低通滤波器
// order: 滤波器阶数 (必须是偶数)
func NewButterworthLowpass(order int, sampleRate, cutoffFreq float64) *ButterworthFilter {
	if order%2 != 0 {
		panic("Butterworth filter order must be even")
	}
	return &ButterworthFilter{
		sections: newButterworthSections(order, sampleRate, cutoffFreq, false),
		order:    order,
	}
}

// NewButterworthHighpass 创建一个新的 N 阶巴特沃斯高通滤波器
func NewButterworthHighpass(order int, sampleRate, cutoffFreq float64) *ButterworthFilter {
	if order%2 != 0 {
		panic("Butterworth filter order must be even")
	}
	return &ButterworthFilter{
		sections: newButterworthSections(order, sampleRate, cutoffFreq, true),
		order:    order,
	}
}

// Process 处理单个采样点，通过所有级联节
func (f *ButterworthFilter) Process(in float64) float64 {
	out := in
	for _, s := range f.sections {
		out = s.Process(out)
	}
	return out
}

// Reset 清空所有级联节的状态
func (f *ButterworthFilter) Reset() {
	for _, s := range f.sections {
		s.Reset()
	}
}

// FiltFilt 对整段信号做零相位滤波 (正向一遍 + 反向一遍)
// 两遍滤波使相位失真互相抵消，R 波位置不发生偏移
// 边界使用奇对称反射扩展，抑制起始/结束处的瞬态
func FiltFilt(f *ButterworthFilter, x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}

	// 反射扩展长度。经验值：约 3 倍滤波器长度，且不超过信号本身
	padLen := 3 * (f.order + 1)
	if padLen > n-1 {
		padLen = n - 1
	}

	// 构造扩展序列 [首部反射 | 原信号 | 尾部反射]
	ext := make([]float64, padLen+n+padLen)
	for i := 0; i < padLen; i++ {
		ext[i] = 2*x[0] - x[padLen-i]
		ext[padLen+n+i] = 2*x[n-1] - x[n-2-i]
	}
	copy(ext[padLen:], x)

	// 正向
	f.Reset()
	for i, v := range ext {
		ext[i] = f.Process(v)
	}

	// 反向
	f.Reset()
	for i, j := 0, len(ext)-1; i < j; i, j = i+1, j-1 {
		ext[i], ext[j] = ext[j], ext[i]
	}
	for i, v := range ext {
		ext[i] = f.Process(v)
	}
	for i, j := 0, len(ext)-1; i < j; i, j = i+1, j-1 {
		ext[i], ext[j] = ext[j], ext[i]
	}

	out := make([]float64, n)
	copy(out, ext[padLen:padLen+n])
	return out
}

// Condition 对原始心电信号做带通滤波 (SignalConditioner)
// 实现为 order 阶高通 (lowCut) 与 order 阶低通 (highCut) 的零相位级联，
// 输出与输入等长，且不修改输入切片
func Condition(samples []float64, sampleRate int, lowCutHz, highCutHz float64, order int) ([]float64, error) {
	if len(samples) == 0 {
		return nil, &EmptySignalError{Stage: "signal conditioning"}
	}

	nyquist := float64(sampleRate) / 2.0
	if lowCutHz <= 0 || lowCutHz >= highCutHz || highCutHz > nyquist {
		return nil, &InvalidRangeError{LowCut: lowCutHz, HighCut: highCutHz, Nyquist: nyquist}
	}
	if order < 2 || order%2 != 0 {
		return nil, &InvalidRangeError{LowCut: lowCutHz, HighCut: highCutHz, Nyquist: nyquist}
	}

	fs := float64(sampleRate)
	hp := NewButterworthHighpass(order, fs, lowCutHz)
	lp := NewButterworthLowpass(order, fs, highCutHz)

	out := FiltFilt(hp, samples)
	out = FiltFilt(lp, out)
	return out, nil
}
