package ekg

import "fmt"

// InvalidRangeError 表示带通滤波器的截止频率配置非法
// (lowCut >= highCut 或超过 Nyquist 频率)
type InvalidRangeError struct {
	LowCut  float64
	HighCut float64
	Nyquist float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid filter range: low=%.2fHz high=%.2fHz nyquist=%.2fHz",
		e.LowCut, e.HighCut, e.Nyquist)
}

// EmptySignalError 表示某个阶段收到了空信号
type EmptySignalError struct {
	Stage string
}

func (e *EmptySignalError) Error() string {
	return fmt.Sprintf("empty signal passed to %s", e.Stage)
}
