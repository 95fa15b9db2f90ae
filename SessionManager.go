package ekg

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ekg/Arrhythmia"
)

// Session 一次分析会话的可持久化快照
type Session struct {
	Name       string             `json:"session_name"`
	Timestamp  string             `json:"timestamp"`
	SampleRate int                `json:"sampling_rate"`
	Data       []float64          `json:"data,omitempty"`
	Filtered   []float64          `json:"filtered_data,omitempty"`
	Peaks      []int              `json:"peaks,omitempty"`
	HeartRate  *Arrhythmia.Stats  `json:"heart_rate,omitempty"`
	Report     *Arrhythmia.Report `json:"arrhythmia_report,omitempty"`
	Metadata   map[string]string  `json:"metadata,omitempty"`
}

// SessionManager 管理分析会话的保存、加载与报告导出
// 会话以 JSON 文件形式存放在 Dir 下，文件名为 名称_时间戳.json
type SessionManager struct {
	Dir string
}

// NewSessionManager 创建会话管理器并确保目录存在
func NewSessionManager(dir string) (*SessionManager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &SessionManager{Dir: dir}, nil
}

// Save 保存会话，返回文件路径
// Timestamp 为空时自动填充当前时间
func (m *SessionManager) Save(s *Session) (string, error) {
	if s.Timestamp == "" {
		s.Timestamp = time.Now().Format("20060102_150405")
	}
	path := filepath.Join(m.Dir, fmt.Sprintf("%s_%s.json", s.Name, s.Timestamp))

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Load 加载一个已保存的会话
func (m *SessionManager) Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// List 列出所有会话文件，按文件名倒序 (新的在前)
func (m *SessionManager) List() ([]string, error) {
	entries, err := filepath.Glob(filepath.Join(m.Dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(entries)))
	return entries, nil
}

// Delete 删除一个会话文件
func (m *SessionManager) Delete(path string) error {
	return os.Remove(path)
}

// ExportReport 从会话文件导出报告，format 支持 txt / json / csv
// 返回导出文件路径
func (m *SessionManager) ExportReport(sessionFile, format, outDir string) (string, error) {
	s, err := m.Load(sessionFile)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}

	base := filepath.Join(outDir, fmt.Sprintf("report_%s_%s", s.Name, s.Timestamp))
	switch format {
	case "txt":
		path := base + ".txt"
		return path, m.exportTxt(s, path)
	case "json":
		path := base + ".json"
		return path, m.exportJSON(s, path)
	case "csv":
		path := base + ".csv"
		return path, m.exportCsv(s, path)
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

// exportTxt 文本报告：统计摘要 + 异常明细 (前 20 条)
func (m *SessionManager) exportTxt(s *Session, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	bar := strings.Repeat("=", 60)
	sep := strings.Repeat("-", 60)

	fmt.Fprintf(w, "%s\nEKG ANALYSIS REPORT\n%s\n\n", bar, bar)
	fmt.Fprintf(w, "Session: %s\nDate: %s\n\n", s.Name, s.Timestamp)

	if len(s.Metadata) > 0 {
		fmt.Fprintf(w, "METADATA\n%s\n", sep)
		keys := make([]string, 0, len(s.Metadata))
		for k := range s.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%s: %s\n", k, s.Metadata[k])
		}
		fmt.Fprintln(w)
	}

	if s.HeartRate != nil {
		fmt.Fprintf(w, "HEART RATE STATISTICS\n%s\n", sep)
		fmt.Fprintf(w, "Mean HR: %.1f BPM\n", s.HeartRate.Mean)
		fmt.Fprintf(w, "Std Dev: %.1f BPM\n", s.HeartRate.Std)
		fmt.Fprintf(w, "Min HR: %.1f BPM\n", s.HeartRate.Min)
		fmt.Fprintf(w, "Max HR: %.1f BPM\n\n", s.HeartRate.Max)
	}

	if s.Report != nil {
		r := s.Report
		fmt.Fprintf(w, "ARRHYTHMIA ANALYSIS\n%s\n", sep)
		fmt.Fprintf(w, "Total Beats: %d\n", r.TotalBeats)
		fmt.Fprintf(w, "Arrhythmias Detected: %d\n", r.ArrhythmiasDetected)
		fmt.Fprintf(w, "Abnormal Waveforms: %d\n\n", r.AbnormalWaveforms)

		if len(r.ArrhythmiaCounts) > 0 {
			fmt.Fprintln(w, "Arrhythmia Types:")
			kinds := make([]string, 0, len(r.ArrhythmiaCounts))
			for k := range r.ArrhythmiaCounts {
				kinds = append(kinds, k)
			}
			sort.Strings(kinds)
			for _, k := range kinds {
				fmt.Fprintf(w, "  - %s: %d\n", k, r.ArrhythmiaCounts[k])
			}
			fmt.Fprintln(w)
		}

		if len(r.ArrhythmiaDetails) > 0 {
			fmt.Fprintln(w, "Detailed Arrhythmia Events:")
			limit := len(r.ArrhythmiaDetails)
			if limit > 20 {
				limit = 20
			}
			for _, ev := range r.ArrhythmiaDetails[:limit] {
				fmt.Fprintf(w, "  Beat #%d: %s - %s\n", ev.Beat, ev.Type, ev.Description)
			}
			if rest := len(r.ArrhythmiaDetails) - limit; rest > 0 {
				fmt.Fprintf(w, "  ... and %d more\n", rest)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", bar)
	return nil
}

// exportJSON 结构化报告：不含原始采样数据，只含统计和明细
func (m *SessionManager) exportJSON(s *Session, path string) error {
	export := struct {
		Name      string             `json:"session_name"`
		Timestamp string             `json:"timestamp"`
		Metadata  map[string]string  `json:"metadata"`
		HeartRate *Arrhythmia.Stats  `json:"heart_rate"`
		Report    *Arrhythmia.Report `json:"arrhythmia_report"`
		Peaks     []int              `json:"peaks,omitempty"`
	}{
		Name:      s.Name,
		Timestamp: s.Timestamp,
		Metadata:  s.Metadata,
		HeartRate: s.HeartRate,
		Report:    s.Report,
		Peaks:     s.Peaks,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// exportCsv 时序数据：每行一个采样点，带 R 波标记列
func (m *SessionManager) exportCsv(s *Session, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	isPeak := make(map[int]bool, len(s.Peaks))
	for _, p := range s.Peaks {
		isPeak[p] = true
	}

	hasFiltered := len(s.Filtered) == len(s.Data)
	if hasFiltered {
		fmt.Fprintln(w, "sample,raw_signal,filtered_signal,r_peak")
	} else {
		fmt.Fprintln(w, "sample,raw_signal,r_peak")
	}

	for i, v := range s.Data {
		peak := 0
		if isPeak[i] {
			peak = 1
		}
		if hasFiltered {
			fmt.Fprintf(w, "%d,%.6f,%.6f,%d\n", i, v, s.Filtered[i], peak)
		} else {
			fmt.Fprintf(w, "%d,%.6f,%d\n", i, v, peak)
		}
	}
	return nil
}
