package configs

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 限流与熔断默认值.
const (
	DefaultRateLimitRPS   = 50.0
	DefaultRateLimitBurst = 100
	DefaultRateLimitKey   = "ip"

	DefaultCBFailureRate       = 0.5
	DefaultCBMinRequests       = 20
	DefaultCBIntervalSeconds   = 60
	DefaultCBTimeoutSeconds    = 30
	DefaultCBMaxRequestsInHalf = 5
)

// defaultExemptPaths 探活与指标接口不参与限流和熔断.
var defaultExemptPaths = []string{"/health", "/metrics", "/swagger"}

// RateLimitConfig 令牌桶限流.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"   rule:"gte=0"`
	Burst   int     `mapstructure:"burst" rule:"gte=0"`
	// Key 限流维度：global、ip 或 header:Header-Name
	Key         string   `mapstructure:"key"`
	ExemptPaths []string `mapstructure:"exempt_paths"`
}

// Exempt 判断路径是否跳过限流.
func (c RateLimitConfig) Exempt(path string) bool {
	return exempt(c.ExemptPaths, path)
}

func (c *RateLimitConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.rps", DefaultRateLimitRPS)
	v.SetDefault("rate_limit.burst", DefaultRateLimitBurst)
	v.SetDefault("rate_limit.key", DefaultRateLimitKey)
	v.SetDefault("rate_limit.exempt_paths", defaultExemptPaths)
}

// CircuitBreakerConfig 按 5xx 比例熔断.
type CircuitBreakerConfig struct {
	Enabled           bool     `mapstructure:"enabled"`
	FailureRate       float64  `mapstructure:"failure_rate"         rule:"gte=0,lte=1"`
	MinRequests       uint32   `mapstructure:"min_requests"`
	IntervalSeconds   int      `mapstructure:"interval_seconds"     rule:"gte=0"`
	TimeoutSeconds    int      `mapstructure:"timeout_seconds"      rule:"gte=0"`
	MaxRequestsInHalf uint32   `mapstructure:"max_requests_in_half"`
	ExemptPaths       []string `mapstructure:"exempt_paths"`
}

// Interval 统计窗口，0 表示不清零计数.
func (c CircuitBreakerConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Timeout 打开状态持续时间，之后进入半开.
func (c CircuitBreakerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Exempt 判断路径是否跳过熔断.
func (c CircuitBreakerConfig) Exempt(path string) bool {
	return exempt(c.ExemptPaths, path)
}

func (c *CircuitBreakerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("circuit_breaker.enabled", false)
	v.SetDefault("circuit_breaker.failure_rate", DefaultCBFailureRate)
	v.SetDefault("circuit_breaker.min_requests", DefaultCBMinRequests)
	v.SetDefault("circuit_breaker.interval_seconds", DefaultCBIntervalSeconds)
	v.SetDefault("circuit_breaker.timeout_seconds", DefaultCBTimeoutSeconds)
	v.SetDefault("circuit_breaker.max_requests_in_half", DefaultCBMaxRequestsInHalf)
	v.SetDefault("circuit_breaker.exempt_paths", defaultExemptPaths)
}

// exempt 按路径段前缀匹配，"/health" 匹配 "/health/db" 但不匹配 "/healthz".
func exempt(prefixes []string, path string) bool {
	for _, p := range prefixes {
		p = strings.TrimRight(p, "/")
		if p == "" {
			continue
		}

		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}

	return false
}
