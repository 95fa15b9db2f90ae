package main

import (
	"ekg"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func main() {
	// 1. 解析命令行参数
	inputFile := flag.String("file", "", "Input EKG recording (.txt or .csv)")
	sampleRate := flag.Int("rate", 1000, "Sampling rate in Hz")
	saveSession := flag.Bool("save", false, "Save analysis session")
	sessionName := flag.String("name", "", "Session name (default: input file name)")
	sessionsDir := flag.String("sessions", "sessions", "Sessions directory")
	exportFormat := flag.String("export", "", "Export report format: txt, json or csv")
	listSessions := flag.Bool("list", false, "List saved sessions")
	exportSession := flag.String("export-session", "", "Export report from a saved session file")
	debugFile := flag.String("debug", "", "Write per-sample debug CSV to this file")
	serialPort := flag.String("port", "", "Serial port for live acquisition (e.g. /dev/ttyUSB0)")
	baudRate := flag.Int("baud", 115200, "Serial baud rate")
	duration := flag.Float64("duration", 10.0, "Live recording duration in seconds")
	flag.Parse()

	switch {
	case *listSessions:
		runList(*sessionsDir)
	case *exportSession != "":
		runExport(*sessionsDir, *exportSession, *exportFormat)
	case *serialPort != "":
		runLive(*serialPort, *baudRate, *sampleRate, *duration, *saveSession, *sessionName, *sessionsDir)
	case *inputFile != "":
		runFile(*inputFile, *sampleRate, *saveSession, *sessionName, *sessionsDir, *exportFormat, *debugFile)
	default:
		flag.Usage()
		os.Exit(1)
	}
}

// runFile 处理单个记录文件
func runFile(path string, rate int, save bool, name, sessionsDir, exportFormat, debugFile string) {
	system := ekg.NewEKGSystem()
	system.Config().SampleRate = rate

	if debugFile != "" {
		dbg, err := ekg.NewCsvFileDebugger(debugFile)
		if err != nil {
			log.Fatalf("Failed to create debug file: %v", err)
		}
		defer dbg.Close()
		system.SetDebugger(dbg)
	}

	fmt.Printf("Processing file: %s\n", path)
	result, err := system.AnalyzeFile(path)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	printResult(result)

	if save {
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		saved, err := system.SaveSession(name, sessionsDir, result, map[string]string{"source_file": path})
		if err != nil {
			log.Fatalf("Failed to save session: %v", err)
		}
		fmt.Printf("Session saved: %s\n", saved)

		if exportFormat != "" {
			m, err := ekg.NewSessionManager(sessionsDir)
			if err != nil {
				log.Fatalf("Failed to open sessions dir: %v", err)
			}
			report, err := m.ExportReport(saved, exportFormat, "reports")
			if err != nil {
				log.Fatalf("Failed to export report: %v", err)
			}
			fmt.Printf("Report exported: %s\n", report)
		}
	}
}

// runLive 从下位机采集后分析
func runLive(port string, baud, rate int, durationSec float64, save bool, name, sessionsDir string) {
	system := ekg.NewEKGSystem()
	system.Config().SampleRate = rate
	system.Config().MCU.Port = port
	system.Config().MCU.BaudRate = baud
	defer system.DisconnectMCU()

	fmt.Printf("Recording from %s for %.1f seconds...\n", port, durationSec)
	samples, err := system.RecordLive(time.Duration(durationSec * float64(time.Second)))
	if err != nil {
		log.Fatalf("Live recording failed: %v", err)
	}
	fmt.Printf("Collected %d samples\n", len(samples))

	if len(samples) < 100 {
		log.Fatal("Not enough data collected")
	}

	result, err := system.AnalyzeSamples(samples)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
	printResult(result)

	if save {
		if name == "" {
			name = "live_recording"
		}
		saved, err := system.SaveSession(name, sessionsDir, result, map[string]string{"source": "live", "port": port})
		if err != nil {
			log.Fatalf("Failed to save session: %v", err)
		}
		fmt.Printf("Session saved: %s\n", saved)
	}
}

func runList(dir string) {
	m, err := ekg.NewSessionManager(dir)
	if err != nil {
		log.Fatalf("Failed to open sessions dir: %v", err)
	}
	sessions, err := m.List()
	if err != nil {
		log.Fatalf("Failed to list sessions: %v", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No saved sessions found")
		return
	}
	fmt.Printf("Found %d session(s):\n", len(sessions))
	for i, s := range sessions {
		fmt.Printf("%d. %s\n", i+1, s)
	}
}

func runExport(dir, sessionFile, format string) {
	if format == "" {
		format = "txt"
	}
	m, err := ekg.NewSessionManager(dir)
	if err != nil {
		log.Fatalf("Failed to open sessions dir: %v", err)
	}
	report, err := m.ExportReport(sessionFile, format, "reports")
	if err != nil {
		log.Fatalf("Failed to export report: %v", err)
	}
	fmt.Printf("Report exported: %s\n", report)
}

// printResult 在终端打印分析摘要
func printResult(r *ekg.AnalysisResult) {
	fmt.Printf("Loaded %d samples (%.1f s)\n", len(r.Raw), float64(len(r.Raw))/float64(r.SampleRate))
	fmt.Printf("Detected %d R-peaks\n", len(r.Peaks))
	fmt.Printf("Mean heart rate: %.1f BPM (std %.1f, range %.1f-%.1f)\n",
		r.HeartRate.Mean, r.HeartRate.Std, r.HeartRate.Min, r.HeartRate.Max)
	if r.SpectralBPM > 0 {
		fmt.Printf("Spectral estimate: %.1f BPM\n", r.SpectralBPM)
	}
	fmt.Printf("Arrhythmias detected: %d\n", r.Report.ArrhythmiasDetected)
	for kind, count := range r.Report.ArrhythmiaCounts {
		fmt.Printf("  - %s: %d\n", kind, count)
	}
	fmt.Printf("Abnormal waveforms: %d\n", r.Report.AbnormalWaveforms)
}
