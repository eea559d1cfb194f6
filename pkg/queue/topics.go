package queue

// 主题命名：videocatalog.<资源>.<动作>，资源名与接口路径一致.
const (
	TopicPrefix = "videocatalog"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionPurged  = "purged"
)

// Topic 拼接主题名.
func Topic(resource, action string) string {
	return TopicPrefix + "." + resource + "." + action
}
