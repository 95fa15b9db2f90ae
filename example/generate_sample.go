package main

import (
	"bufio"
	"ekg"
	"fmt"
	"log"
	"os"
)

// 生成两段示例心电数据 (正常节律 / 含心律失常)，
// 写成单列 CSV，可直接用 cmd 的 -file 参数分析
func main() {
	fmt.Println("Generating synthetic EKG data...")

	normal := ekg.GenerateSyntheticEKG(10, 1000, 600, 0.05, false)
	arrhythmia := ekg.GenerateSyntheticEKG(15, 1000, 600, 0.05, true)

	if err := writeCsv("sample_ekg_normal.csv", normal); err != nil {
		log.Fatalf("Failed to write file: %v", err)
	}
	if err := writeCsv("sample_ekg_arrhythmia.csv", arrhythmia); err != nil {
		log.Fatalf("Failed to write file: %v", err)
	}

	fmt.Println("Generated files:")
	fmt.Println("  - sample_ekg_normal.csv (10s, 600 BPM)")
	fmt.Println("  - sample_ekg_arrhythmia.csv (15s, premature beats + pause + tachycardia)")
	fmt.Println("Analyze with: go run ekg/cmd -file sample_ekg_arrhythmia.csv")
}

func writeCsv(filename string, samples []float64) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	fmt.Fprintln(w, "ekg")
	for _, v := range samples {
		fmt.Fprintf(w, "%.6f\n", v)
	}
	return nil
}
