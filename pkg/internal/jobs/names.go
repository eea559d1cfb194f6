package jobs

// 任务名称常量.
const (
	JobTrashPurge = "trash.purge"
)
