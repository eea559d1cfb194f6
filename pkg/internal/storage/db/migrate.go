package db

import (
	"context"
	"fmt"

	"github.com/yeisme/videocatalog/pkg/internal/model"
)

// Migrate 同步实体表与多对多关联表.
func (c *Client) Migrate(ctx context.Context) error {
	if err := c.WithContext(ctx).AutoMigrate(model.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return nil
}
