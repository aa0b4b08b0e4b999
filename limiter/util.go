package limiter

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// 解析 period 字符串，如 "2s"、"500ms"、"1m"
func ParsePeriod(period string) (time.Duration, error) {
	var unit time.Duration

	// 去除字符串中的空格
	period = strings.TrimSpace(period)

	// 获取数字部分
	var numStr string
	var unitStr string
	for i, char := range period {
		if char >= '0' && char <= '9' {
			numStr += string(char)
		} else {
			unitStr = period[i:]
			break
		}
	}
	// 解析数字部分
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, fmt.Errorf("invalid period %q: %w", period, err)
	}
	if num <= 0 {
		return 0, fmt.Errorf("invalid period %q: must be positive", period)
	}
	// 解析时间单位部分
	switch strings.ToLower(unitStr) {
	case "ms":
		unit = time.Millisecond
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	default:
		return 0, fmt.Errorf("unsupported time unit: %s", unitStr)
	}
	return unit * time.Duration(num), nil
}

// Interval 令牌的平均发放间隔
func (p PeriodLimit) Interval() (time.Duration, error) {
	if p.Times <= 0 {
		return 0, fmt.Errorf("invalid times %d for period %s", p.Times, p.Period)
	}
	d, err := ParsePeriod(p.Period)
	if err != nil {
		return 0, err
	}
	return d / time.Duration(p.Times), nil
}

func GetOutBoundIP() (ip string, err error) {
	hostIP := os.Getenv("HOST_IP")
	if hostIP != "" {
		ip = hostIP
		return
	}
	conn, err := net.Dial("udp", "8.8.8.8:53")
	if err != nil {
		return
	}
	defer conn.Close()
	localAddr := conn.LocalAddr().(*net.UDPAddr)
	ip = localAddr.IP.String()
	return
}
