package ekg

import (
	"fmt"
	"time"
)

// EKGSystem 管理采集、分析与会话保存的生命周期
// Analyze 本身是纯函数，可并发分析不同记录；
// 一个 EKGSystem 实例串行处理一段"当前"信号，不要并发复用同一实例
type EKGSystem struct {
	cfg      *Config
	mcu      *MCUClient
	sessions *SessionManager
	debugger SignalDebugger

	lastResult *AnalysisResult
}

// NewEKGSystem 创建系统实例
func NewEKGSystem() *EKGSystem {
	return &EKGSystem{cfg: DefaultConfig()}
}

// Config 返回可调配置 (启动分析前修改)
func (s *EKGSystem) Config() *Config {
	return s.cfg
}

// SetDebugger 挂载逐采样点调试输出
func (s *EKGSystem) SetDebugger(d SignalDebugger) {
	s.debugger = d
}

// LastResult 返回最近一次成功分析的结果，没有则为 nil
func (s *EKGSystem) LastResult() *AnalysisResult {
	return s.lastResult
}

// AnalyzeSamples 对一段内存中的信号执行完整分析
func (s *EKGSystem) AnalyzeSamples(samples []float64) (*AnalysisResult, error) {
	result, err := Analyze(samples, s.cfg)
	if err != nil {
		return nil, err
	}
	s.lastResult = result

	if s.debugger != nil {
		s.dumpDebug(result)
	}
	return result, nil
}

// AnalyzeFile 读取记录文件并执行完整分析
func (s *EKGSystem) AnalyzeFile(path string) (*AnalysisResult, error) {
	samples, err := LoadRecording(path)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeSamples(samples)
}

// RecordLive 连接下位机并采集 duration 时长的数据
func (s *EKGSystem) RecordLive(duration time.Duration) ([]float64, error) {
	if s.mcu == nil {
		s.mcu = NewMCUClient(s.cfg.MCU.Port, s.cfg.MCU.BaudRate)
		s.mcu.ReadTimeout = s.cfg.MCU.ReadTimeout
		if err := s.mcu.Open(); err != nil {
			s.mcu = nil
			return nil, fmt.Errorf("connect mcu: %w", err)
		}
	}

	if err := s.mcu.StartStreaming(nil, duration); err != nil {
		return nil, err
	}
	s.mcu.Wait()
	return s.mcu.StopStreaming(), nil
}

// DisconnectMCU 断开下位机连接
func (s *EKGSystem) DisconnectMCU() {
	if s.mcu != nil {
		s.mcu.Close()
		s.mcu = nil
	}
}

// SaveSession 把分析结果保存为会话文件
func (s *EKGSystem) SaveSession(name, dir string, result *AnalysisResult, metadata map[string]string) (string, error) {
	if result == nil {
		return "", fmt.Errorf("no analysis result to save")
	}

	m, err := NewSessionManager(dir)
	if err != nil {
		return "", err
	}
	s.sessions = m

	hr := result.HeartRate
	return m.Save(&Session{
		Name:       name,
		SampleRate: result.SampleRate,
		Data:       result.Raw,
		Filtered:   result.Filtered,
		Peaks:      result.Peaks,
		HeartRate:  &hr,
		Report:     result.Report,
		Metadata:   metadata,
	})
}

// dumpDebug 把整段信号逐点写入调试器 (raw, filtered, threshold, R 波标记)
func (s *EKGSystem) dumpDebug(result *AnalysisResult) {
	pd := NewPeakDetector(PeakDetectorConfig{
		SampleRate:    s.cfg.SampleRate,
		HeightFactor:  s.cfg.Detector.HeightFactor,
		AbsThreshold:  s.cfg.Detector.AbsThreshold,
		AutoThreshold: s.cfg.Detector.AutoThreshold,
		MinDistanceMs: s.cfg.Detector.MinDistanceMs,
	})
	threshold := pd.Threshold(result.Filtered)

	isPeak := make(map[int]bool, len(result.Peaks))
	for _, p := range result.Peaks {
		isPeak[p] = true
	}
	for i := range result.Raw {
		s.debugger.Record(result.Raw[i], result.Filtered[i], threshold, isPeak[i])
	}
}
