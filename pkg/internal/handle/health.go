package handle

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/videocatalog/pkg/context"
)

const timeout = 2 * time.Second

var errNotInitialized = errors.New("client not initialized")

// componentStatus 单个组件的检查结果. 未配置的可选组件为 disabled.
type componentStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type probe func(ctx context.Context) error

func probeDB(ctx context.Context) error {
	dbc := ctxPkg.GetDBClient(ctx)
	if dbc == nil || dbc.GetDB() == nil {
		return errNotInitialized
	}

	sqlDB, err := dbc.GetDB().DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

func probeS3(ctx context.Context) error {
	s3c := ctxPkg.GetS3Client(ctx)
	if s3c == nil {
		return errNotInitialized
	}

	return s3c.HealthCheck(ctx)
}

func probeKV(ctx context.Context) error {
	kvc := ctxPkg.GetKVClient(ctx)
	if kvc == nil || kvc.KVStore == nil {
		return errNotInitialized
	}

	_, err := kvc.Exists(ctx, "health")

	return err
}

func probeMQ(ctx context.Context) error {
	// publisher 与 subscriber 在 New 中初始化, 判空即可
	if ctxPkg.GetMQClient(ctx) == nil {
		return errNotInitialized
	}

	return nil
}

func runProbe(c *gin.Context, p probe) componentStatus {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	if err := p(ctx); err != nil {
		return componentStatus{Status: "unhealthy", Error: err.Error()}
	}

	return componentStatus{Status: "ok"}
}

func single(component string, p probe) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := runProbe(c, p)

		code := http.StatusOK
		if st.Status != "ok" {
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{"component": component, "status": st.Status, "error": st.Error})
	}
}

// Health 汇总健康检查. 数据库不可用时返回 503，其余组件未配置时标记为 disabled.
//
//	@Summary	健康检查
//	@Tags		运维
//	@Produce	json
//	@Success	200	{object}	map[string]any
//	@Failure	503	{object}	map[string]any
//	@Router		/health [get]
func Health(c *gin.Context) {
	ctx := c.Request.Context()
	components := map[string]componentStatus{"db": runProbe(c, probeDB)}

	optional := map[string]struct {
		enabled bool
		probe   probe
	}{
		"s3": {ctxPkg.GetS3Client(ctx) != nil, probeS3},
		"kv": {ctxPkg.GetKVClient(ctx) != nil, probeKV},
		"mq": {ctxPkg.GetMQClient(ctx) != nil, probeMQ},
	}

	for name, o := range optional {
		if !o.enabled {
			components[name] = componentStatus{Status: "disabled"}
			continue
		}

		components[name] = runProbe(c, o.probe)
	}

	status, code := "ok", http.StatusOK

	for name, st := range components {
		if st.Status != "unhealthy" {
			continue
		}

		status = "degraded"

		if name == "db" {
			status, code = "unhealthy", http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(code, gin.H{"status": status, "components": components})
}

// HealthDB 数据库健康检查.
//
//	@Summary	数据库健康检查
//	@Tags		运维
//	@Produce	json
//	@Success	200	{object}	map[string]any
//	@Failure	503	{object}	map[string]any
//	@Router		/health/db [get]
func HealthDB(c *gin.Context) { single("db", probeDB)(c) }

// HealthS3 对象存储健康检查.
//
//	@Summary	对象存储健康检查
//	@Tags		运维
//	@Produce	json
//	@Success	200	{object}	map[string]any
//	@Failure	503	{object}	map[string]any
//	@Router		/health/s3 [get]
func HealthS3(c *gin.Context) { single("s3", probeS3)(c) }

// HealthKV 缓存后端健康检查.
func HealthKV(c *gin.Context) { single("kv", probeKV)(c) }

// HealthMQ 消息队列健康检查.
func HealthMQ(c *gin.Context) { single("mq", probeMQ)(c) }
