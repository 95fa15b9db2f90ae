package ekg

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tarm/serial"
)

// SerialPort 定义串口操作接口，方便测试 Mock
type SerialPort interface {
	io.ReadWriteCloser
}

// MCUClient 处理与下位机 (采集板) 的串口通信
// 协议为行文本：下位机按采样率持续发送一行一个数值的心电采样
type MCUClient struct {
	Port        string
	BaudRate    int
	ReadTimeout time.Duration

	conn   SerialPort
	reader *bufio.Reader

	mu        sync.Mutex
	buf       []float64
	streaming bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewMCUClient 创建新的采集客户端
func NewMCUClient(port string, baudRate int) *MCUClient {
	return &MCUClient{
		Port:        port,
		BaudRate:    baudRate,
		ReadTimeout: time.Second,
	}
}

// Open 打开串口连接
func (c *MCUClient) Open() error {
	config := &serial.Config{
		Name:        c.Port,
		Baud:        c.BaudRate,
		ReadTimeout: c.ReadTimeout,
	}
	s, err := serial.OpenPort(config)
	if err != nil {
		return err
	}
	c.conn = s
	c.reader = bufio.NewReader(s)
	return nil
}

// Close 关闭连接 (先停止采集)
func (c *MCUClient) Close() error {
	c.StopStreaming()
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// ReadSample 读取一个采样值
// 串口上偶尔会出现坏字符或空行，跳过而不是报错；读取本身失败才返回 error
func (c *MCUClient) ReadSample() (float64, error) {
	if c.reader == nil {
		return 0, fmt.Errorf("mcu: port not open")
	}
	for {
		line, err := c.reader.ReadString('\n')
		if s := strings.TrimSpace(line); s != "" {
			if v, perr := strconv.ParseFloat(s, 64); perr == nil {
				return v, nil
			}
			// 解析失败视为传输毛刺，继续读下一行
		}
		if err != nil {
			return 0, err
		}
	}
}

// StartStreaming 启动后台采集
// callback 不为 nil 时对每个新采样回调一次；duration > 0 时到时自动停止
func (c *MCUClient) StartStreaming(callback func(float64), duration time.Duration) error {
	c.mu.Lock()
	if c.streaming {
		c.mu.Unlock()
		return fmt.Errorf("mcu: already streaming")
	}
	c.streaming = true
	c.buf = nil
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})
	c.mu.Unlock()

	go func() {
		defer close(c.doneCh)
		var deadline time.Time
		if duration > 0 {
			deadline = time.Now().Add(duration)
		}
		for {
			select {
			case <-c.stopCh:
				return
			default:
			}
			if !deadline.IsZero() && time.Now().After(deadline) {
				return
			}

			sample, err := c.ReadSample()
			if err != nil {
				// 超时返回的空读继续等，连接断开则结束
				if err == io.EOF {
					return
				}
				continue
			}
			c.mu.Lock()
			c.buf = append(c.buf, sample)
			c.mu.Unlock()
			if callback != nil {
				callback(sample)
			}
		}
	}()
	return nil
}

// Wait 阻塞直到采集结束 (到时或被停止)
func (c *MCUClient) Wait() {
	c.mu.Lock()
	done := c.doneCh
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// StopStreaming 停止采集并返回已收集的数据
func (c *MCUClient) StopStreaming() []float64 {
	c.mu.Lock()
	if !c.streaming {
		c.mu.Unlock()
		return c.Buffer()
	}
	c.streaming = false
	close(c.stopCh)
	done := c.doneCh
	c.mu.Unlock()

	if done != nil {
		<-done
	}
	return c.Buffer()
}

// Buffer 返回当前缓冲区的副本，不打断采集
func (c *MCUClient) Buffer() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]float64, len(c.buf))
	copy(out, c.buf)
	return out
}

// ClearBuffer 清空缓冲区
func (c *MCUClient) ClearBuffer() {
	c.mu.Lock()
	c.buf = nil
	c.mu.Unlock()
}

// SendCommand 向下位机发送一条命令并读取单行响应
func (c *MCUClient) SendCommand(command string) (string, error) {
	if c.conn == nil {
		return "", fmt.Errorf("mcu: port not open")
	}
	if _, err := c.conn.Write([]byte(command + "\n")); err != nil {
		return "", err
	}
	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
