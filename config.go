package ekg

import "time"

// Config 结构体用于集中管理分析管线的所有可调参数和阈值
type Config struct {
	// --- 采样 ---
	SampleRate int // 采样率 (Hz)。小鼠心电常用 1000Hz

	// --- 带通滤波 (SignalConditioner) ---
	// 负责去除基线漂移和高频噪声，零相位应用以保持 R 波时间位置
	Filter struct {
		LowCutHz  float64 // 带通下限 (Hz)，用于去除基线漂移 (例如 0.5Hz)
		HighCutHz float64 // 带通上限 (Hz)，用于去除高频噪声 (例如 100Hz)，不得超过 Nyquist
		Order     int     // 巴特沃斯阶数 (必须是偶数，默认 4)
	}

	// --- R 波检测 (PeakDetector) ---
	Detector struct {
		HeightFactor  float64 // 幅度比例阈值 = max(signal) * 此比例 (默认 0.5)。文件分析的默认模式
		AbsThreshold  float64 // 绝对阈值。> 0 时优先于其它两种模式
		AutoThreshold bool    // true 时使用统计阈值 mean + 0.5*std (无显式阈值的场景)
		MinDistanceMs float64 // 不应期 (毫秒)。两个 R 波的最小间隔，默认 50ms (上限约 1200 BPM)
	}

	// --- 节律分析 (Arrhythmia.Detector) ---
	// 阈值按小鼠心率范围 (约 400-700 BPM) 调定
	Rhythm struct {
		TachycardiaBPM float64 // 心动过速阈值 (默认 700)
		BradycardiaBPM float64 // 心动过缓阈值 (默认 400)
	}

	// --- 波形分割 (WaveformSegmenter) ---
	Segment struct {
		WindowBefore int // R 波前窗口长度 (采样点，默认 50)
		WindowAfter  int // R 波后窗口长度 (采样点，默认 100)
	}

	// --- 频谱心率估计 (RateEstimator) ---
	// 对逐搏心率的独立交叉验证，不参与节律判定
	Spectrum struct {
		FFTSize int     // FFT 点数 (默认 4096)。越大分辨率越高
		MinBPM  float64 // 搜索下限 (默认 200 BPM)
		MaxBPM  float64 // 搜索上限 (默认 900 BPM)
	}

	// --- 下位机串口采集 (MCUClient) ---
	MCU struct {
		Port        string        // 串口设备名 (例如 /dev/ttyUSB0)
		BaudRate    int           // 波特率 (默认 115200)
		ReadTimeout time.Duration // 单次读取超时 (默认 1s)
	}
}

// DefaultConfig 返回面向小鼠心电记录的默认配置
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.SampleRate = 1000

	cfg.Filter.LowCutHz = 0.5
	cfg.Filter.HighCutHz = 100.0
	cfg.Filter.Order = 4

	cfg.Detector.HeightFactor = 0.5
	cfg.Detector.AbsThreshold = 0
	cfg.Detector.AutoThreshold = false
	cfg.Detector.MinDistanceMs = 50.0

	cfg.Rhythm.TachycardiaBPM = 700.0
	cfg.Rhythm.BradycardiaBPM = 400.0

	cfg.Segment.WindowBefore = 50
	cfg.Segment.WindowAfter = 100

	cfg.Spectrum.FFTSize = 4096
	cfg.Spectrum.MinBPM = 200.0
	cfg.Spectrum.MaxBPM = 900.0

	cfg.MCU.Port = "/dev/ttyUSB0"
	cfg.MCU.BaudRate = 115200
	cfg.MCU.ReadTimeout = time.Second

	return cfg
}
