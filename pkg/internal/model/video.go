package model

// 视频分级.
var RatingList = []string{"L", "10", "12", "14", "16", "18"}

// 视频文件字段，值为上传后生成的文件名.
const (
	FieldThumbFile   = "thumb_file"
	FieldBannerFile  = "banner_file"
	FieldTrailerFile = "trailer_file"
	FieldVideoFile   = "video_file"
)

// VideoFileFields 按固定顺序列出视频的全部文件字段.
var VideoFileFields = []string{FieldThumbFile, FieldBannerFile, FieldTrailerFile, FieldVideoFile}

// Video 视频.
type Video struct {
	Base
	Title        string  `gorm:"size:255;not null;index"`
	Description  string  `gorm:"type:text;not null"`
	YearLaunched int     `gorm:"not null"`
	Opened       bool    `gorm:"not null"`
	Rating       string  `gorm:"size:3;not null"`
	Duration     int     `gorm:"not null"`
	ThumbFile    *string `gorm:"size:255"`
	BannerFile   *string `gorm:"size:255"`
	TrailerFile  *string `gorm:"size:255"`
	VideoFile    *string `gorm:"size:255"`

	Categories  []Category   `gorm:"many2many:category_video"`
	Genres      []Genre      `gorm:"many2many:genre_video"`
	CastMembers []CastMember `gorm:"many2many:cast_member_video"`
}

// Files 返回文件字段到当前文件名的映射，空字段不包含在内.
func (v *Video) Files() map[string]string {
	out := make(map[string]string, len(VideoFileFields))

	for _, field := range VideoFileFields {
		if p := v.filePtr(field); p != nil && *p != nil && **p != "" {
			out[field] = **p
		}
	}

	return out
}

// SetFile 设置文件字段的文件名.
func (v *Video) SetFile(field, name string) {
	if p := v.filePtr(field); p != nil {
		n := name
		*p = &n
	}
}

func (v *Video) filePtr(field string) **string {
	switch field {
	case FieldThumbFile:
		return &v.ThumbFile
	case FieldBannerFile:
		return &v.BannerFile
	case FieldTrailerFile:
		return &v.TrailerFile
	case FieldVideoFile:
		return &v.VideoFile
	}

	return nil
}
