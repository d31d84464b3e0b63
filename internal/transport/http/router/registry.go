package router

import (
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// APIModule 业务模块在 API 分组上挂载自己的路由
type APIModule interface{ MountAPI(*gin.RouterGroup) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

// 可选：模块自带的 Prometheus 指标
type collectorProvider interface{ Collectors() []prometheus.Collector }

// Registry 显式构造的模块列表，由 main 组装后交给引擎
type Registry struct {
	mods []APIModule
}

func NewRegistry(mods ...APIModule) *Registry {
	r := &Registry{}
	for _, m := range mods {
		r.Register(m)
	}
	return r
}

func (r *Registry) Register(m APIModule) {
	if m != nil {
		r.mods = append(r.mods, m)
	}
}

// MountAll 按优先级挂载所有模块
func (r *Registry) MountAll(api *gin.RouterGroup) {
	mods := append([]APIModule(nil), r.mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(api)
	}
}

// Collectors 汇总模块指标
func (r *Registry) Collectors() []prometheus.Collector {
	var out []prometheus.Collector
	for _, m := range r.mods {
		if p, ok := m.(collectorProvider); ok {
			out = append(out, p.Collectors()...)
		}
	}
	return out
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
