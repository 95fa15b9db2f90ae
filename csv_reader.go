package ekg

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// LoadRecording 从 .txt / .csv 文件读取一段心电采样序列
// 支持 1 列 (幅值) 或 2 列 (时间, 幅值) 的数值数据，两列时取第二列。
// "#" 开头的注释行和无法解析的表头行会被跳过
func LoadRecording(filename string) ([]float64, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var samples []float64

	scanner := bufio.NewScanner(f)
	// 长记录单行不会超过默认上限，但数据块整体可能很大，放大缓冲
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ';' || unicode.IsSpace(r)
		})
		if len(fields) == 0 {
			continue
		}

		// 两列以上取第二列 (时间, 幅值)，否则取第一列
		field := fields[0]
		if len(fields) >= 2 {
			field = fields[1]
		}

		v, perr := strconv.ParseFloat(field, 64)
		if perr != nil {
			// 表头或文字行，跳过
			continue
		}
		samples = append(samples, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("no numeric samples found in %s", filename)
	}
	return samples, nil
}
