package crud

import (
	"fmt"
	"strings"
)

// NotFoundError 实体不存在或已被软删除. 批量操作时 IDs 列出全部缺失项.
type NotFoundError struct {
	Resource string
	IDs      []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, strings.Join(e.IDs, ", "))
}
