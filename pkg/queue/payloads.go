package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// EntityPayload 实体在事务提交后发生的变更.
// 新增与更新事件携带对外表示 Data；删除与清理事件只携带标识符.
type EntityPayload struct {
	Resource string   `json:"resource"`
	Action   string   `json:"action"`
	IDs      []string `json:"ids"`
	Data     any      `json:"data,omitempty"`
}

// FilesPayload 视频清理时一并删除的存储对象.
type FilesPayload struct {
	VideoID string   `json:"video_id"`
	Files   []string `json:"files"`
}
