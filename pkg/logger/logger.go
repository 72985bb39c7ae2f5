package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Init 初始化全局日志器
// 幂等：只有第一次调用生效，应在 main 启动时调用
func Init(env string) {
	once.Do(func() {
		var l *zap.Logger
		var err error
		if env == "prod" {
			l, err = zap.NewProduction()
		} else {
			l, err = zap.NewDevelopment()
		}
		if err != nil {
			l = zap.NewNop()
		}
		instance = l
	})
}

// L 获取全局日志器
// 未初始化时退化为 dev 配置，保证测试里可直接使用
func L() *zap.Logger {
	if instance == nil {
		Init("dev")
	}
	return instance
}

// Named 获取带组件名的日志器，用于区分日志来源
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Sync 刷新缓冲，main 退出前 defer 调用
func Sync() {
	if instance != nil {
		_ = instance.Sync()
	}
}
