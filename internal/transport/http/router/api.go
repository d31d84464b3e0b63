package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"petstore-user/internal/core/server"
	mdw "petstore-user/internal/transport/http/middleware"
)

type Limits struct {
	RPS           float64
	Burst         int
	PerIPRPS      float64 // <=0 关闭每 IP 限速
	PerIPBurst    int
	MaxConcurrent int64
	MaxBodyBytes  int64
	Timeout       time.Duration
}

// DefaultLimits 与 configs/config.local.yaml 保持一致
func DefaultLimits() Limits {
	return Limits{
		RPS:           200,
		Burst:         400,
		MaxConcurrent: 300,
		MaxBodyBytes:  1 << 20,
		Timeout:       10 * time.Second,
	}
}

// withDefaults 逐项补默认值；任一项为 0 都会让所有请求失败
func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.RPS <= 0 {
		l.RPS = d.RPS
	}
	if l.Burst <= 0 {
		l.Burst = d.Burst
	}
	if l.PerIPRPS > 0 && l.PerIPBurst <= 0 {
		l.PerIPBurst = max(1, int(l.PerIPRPS))
	}
	if l.MaxConcurrent <= 0 {
		l.MaxConcurrent = d.MaxConcurrent
	}
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = d.MaxBodyBytes
	}
	if l.Timeout <= 0 {
		l.Timeout = d.Timeout
	}
	return l
}

type Options struct {
	Mode     string // gin 模式：debug / release / test
	BasePath string // 业务路由前缀，默认根路径
	Limits   Limits
}

func NewAPIEngine(l *zap.Logger, opt Options, reg *Registry) *gin.Engine {
	if reg == nil {
		reg = NewRegistry()
	}
	r := server.NewRouter(l, opt.Mode)

	lim := opt.Limits.withDefaults()

	// 每个引擎一份 registry
	metricsReg := prometheus.NewRegistry()
	metricsReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsReg.MustRegister(reg.Collectors()...)

	// 中间件（Timeout 必须在 ConcurrencyLimit 之前，排队才有上限）
	mws := []gin.HandlerFunc{
		mdw.RequestID(),
		mdw.AccessLog(l),
		mdw.Metrics(metricsReg),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
	}
	if lim.PerIPRPS > 0 {
		mws = append(mws, mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst))
	}
	mws = append(mws,
		mdw.Timeout(lim.Timeout),
		mdw.ConcurrencyLimit(lim.MaxConcurrent),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
	)
	r.Use(mws...)

	// 健康检查 & 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metricsReg, promhttp.HandlerOpts{Registry: metricsReg})))

	reg.MountAll(r.Group(opt.BasePath))
	return r
}
