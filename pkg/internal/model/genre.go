package model

// Genre 视频类型，关联到一个或多个分类.
type Genre struct {
	Base
	Name       string     `gorm:"size:255;not null;index"`
	IsActive   bool       `gorm:"not null"`
	Categories []Category `gorm:"many2many:category_genre"`
}
