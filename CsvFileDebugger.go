package ekg

import (
	"bufio"
	"fmt"
	"os"
)

// SignalDebugger 定义调试器接口
// 管线只依赖这个接口，不依赖具体的文件操作
type SignalDebugger interface {
	Record(raw, filtered, threshold float64, isPeak bool)
	Close()
}

// CsvFileDebugger 是 SignalDebugger 的具体实现
// 按采样点逐行落盘，便于在表格/绘图工具里核对滤波和阈值行为
type CsvFileDebugger struct {
	file   *os.File
	writer *bufio.Writer
}

// NewCsvFileDebugger 创建一个新的 CSV 调试器
func NewCsvFileDebugger(filename string) (*CsvFileDebugger, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	w := bufio.NewWriter(f)
	if _, err := w.WriteString("raw,filtered,threshold,r_peak\n"); err != nil {
		f.Close()
		return nil, err
	}

	return &CsvFileDebugger{file: f, writer: w}, nil
}

// Record 写入一个采样点
func (d *CsvFileDebugger) Record(raw, filtered, threshold float64, isPeak bool) {
	peak := 0
	if isPeak {
		peak = 1
	}
	fmt.Fprintf(d.writer, "%.6f,%.6f,%.6f,%d\n", raw, filtered, threshold, peak)
}

// Close 刷新并关闭文件
func (d *CsvFileDebugger) Close() {
	d.writer.Flush()
	d.file.Close()
}
