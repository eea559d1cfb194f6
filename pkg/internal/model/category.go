package model

// Category 视频分类.
type Category struct {
	Base
	Name        string  `gorm:"size:255;not null;index"`
	Description *string `gorm:"type:text"`
	IsActive    bool    `gorm:"not null"`
}
