package types

import "time"

// Category 分类的对外表示.
type Category struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
}

// Genre 类型的对外表示.
type Genre struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	IsActive   bool       `json:"is_active"`
	Categories []Category `json:"categories"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at"`
}

// CastMember 演职人员的对外表示，TypeName 为 Director 或 Actor.
type CastMember struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      int        `json:"type"`
	TypeName  string     `json:"type_name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

// Video 视频的对外表示，文件字段为存储名，*_file_url 为访问地址.
type Video struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	YearLaunched   int          `json:"year_launched"`
	Opened         bool         `json:"opened"`
	Rating         string       `json:"rating"`
	Duration       int          `json:"duration"`
	ThumbFile      *string      `json:"thumb_file"`
	BannerFile     *string      `json:"banner_file"`
	TrailerFile    *string      `json:"trailer_file"`
	VideoFile      *string      `json:"video_file"`
	ThumbFileURL   *string      `json:"thumb_file_url"`
	BannerFileURL  *string      `json:"banner_file_url"`
	TrailerFileURL *string      `json:"trailer_file_url"`
	VideoFileURL   *string      `json:"video_file_url"`
	Categories     []Category   `json:"categories"`
	Genres         []Genre      `json:"genres"`
	CastMembers    []CastMember `json:"cast_members"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	DeletedAt      *time.Time   `json:"deleted_at"`
}
