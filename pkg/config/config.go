package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ==================== 应用配置 ====================

// Config 应用全局配置，全部来自环境变量
type Config struct {
	// 服务
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`
	Env        string `envconfig:"APP_ENV" default:"dev"` // dev / prod

	// 数据库
	DatabaseDSN string `envconfig:"DATABASE_DSN" default:"host=localhost user=postgres password=postgres dbname=multishop port=5432 sslmode=disable"`

	// Redis (可选，为空则不启用缓存)
	RedisAddr string `envconfig:"REDIS_ADDR" default:""`

	// 认证
	// 对称验签密钥，配置后优先走共享密钥路径
	AuthSharedSecret string `envconfig:"AUTH_SHARED_SECRET" default:""`
	// 外部身份提供商地址，JWKS 从 <issuer>/.well-known/jwks.json 拉取
	AuthIssuerURL string `envconfig:"AUTH_ISSUER_URL" default:""`
	// 期望的 iss 值，为空则不校验
	AuthExpectedIssuer string `envconfig:"AUTH_EXPECTED_ISSUER" default:""`

	// 兼容模式：本地旧版登录
	// 开启后才能使用本地账号密码登录，签发/校验使用独立密钥
	LegacyAuthEnabled bool          `envconfig:"LEGACY_AUTH_ENABLED" default:"false"`
	LegacyAuthSecret  string        `envconfig:"LEGACY_AUTH_SECRET" default:""`
	LegacyTokenTTL    time.Duration `envconfig:"LEGACY_TOKEN_TTL" default:"2h"`
}

// Load 加载配置
// 解析失败视为部署错误，直接退出
func Load() *Config {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	return &cfg
}
