package service

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/oklog/ulid"

	"github.com/yeisme/videocatalog/pkg/internal/crud"
	"github.com/yeisme/videocatalog/pkg/internal/model"
	nlog "github.com/yeisme/videocatalog/pkg/log"
	"github.com/yeisme/videocatalog/pkg/metrics"
	"github.com/yeisme/videocatalog/pkg/rule"
)

// ErrFileStorageDisabled 未配置对象存储时上传文件.
var ErrFileStorageDisabled = errors.New("file storage is disabled")

var (
	ulidMu      sync.Mutex
	ulidEntropy = ulid.Monotonic(crand.Reader, 0)
)

// newFileName 同一毫秒内生成的名称保持递增.
func newFileName(ext string) string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String() + ext
}

// VideoFiles 视频文件存储，键为相对路径 "{video_id}/{name}"，由 s3.Client 实现.
type VideoFiles interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// FileKey 返回视频文件的相对键.
func FileKey(videoID, name string) string {
	return path.Join(videoID, name)
}

// VideoFileHolder 视频文件的暂存、上传与清理.
type VideoFileHolder struct {
	files VideoFiles
}

// NewVideoFileHolder files 可以为 nil.
func NewVideoFileHolder(files VideoFiles) *VideoFileHolder {
	return &VideoFileHolder{files: files}
}

// FileURL 返回文件访问地址，未配置存储时为空.
func (h *VideoFileHolder) FileURL(videoID, name string) string {
	if h == nil || h.files == nil {
		return ""
	}

	return h.files.URL(FileKey(videoID, name))
}

// StageFiles 为每个上传文件生成 ULID 加原扩展名的存储名，并写入视频字段.
func (h *VideoFileHolder) StageFiles(v *model.Video, values rule.Values) ([]*crud.StagedFile, error) {
	var staged []*crud.StagedFile

	current := v.Files()

	for _, field := range model.VideoFileFields {
		header := values.File(field)
		if header == nil {
			continue
		}

		if h.files == nil {
			return nil, ErrFileStorageDisabled
		}

		name := newFileName(strings.ToLower(filepath.Ext(header.Filename)))

		staged = append(staged, &crud.StagedFile{
			Field:    field,
			Name:     name,
			Header:   header,
			Previous: current[field],
		})

		v.SetFile(field, name)
	}

	return staged, nil
}

// UploadFiles 把暂存文件写入视频目录.
func (h *VideoFileHolder) UploadFiles(ctx context.Context, v *model.Video, files []*crud.StagedFile) error {
	for _, f := range files {
		if err := h.upload(ctx, v.ID, f); err != nil {
			return fmt.Errorf("upload %s: %w", f.Field, err)
		}

		f.Uploaded = true

		metrics.UploadedBytes.WithLabelValues(f.Field).Add(float64(f.Header.Size))
	}

	return nil
}

func (h *VideoFileHolder) upload(ctx context.Context, videoID string, f *crud.StagedFile) error {
	src, err := f.Header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	contentType := f.Header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if mt, err := mimetype.DetectReader(src); err == nil {
			contentType = mt.String()
		}

		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return err
		}
	}

	return h.files.Put(ctx, FileKey(videoID, f.Name), src, f.Header.Size, contentType)
}

// DiscardFiles 删除本次已上传的文件.
func (h *VideoFileHolder) DiscardFiles(ctx context.Context, v *model.Video, files []*crud.StagedFile) {
	for _, f := range files {
		if f.Uploaded {
			h.remove(ctx, v.ID, f.Name)
		}
	}
}

// DeleteReplaced 删除被新文件替换的旧文件.
func (h *VideoFileHolder) DeleteReplaced(ctx context.Context, v *model.Video, files []*crud.StagedFile) {
	for _, f := range files {
		if f.Previous != "" && f.Previous != f.Name {
			h.remove(ctx, v.ID, f.Previous)
		}
	}
}

// DeleteAll 删除视频的全部文件，返回已删除的文件名.
func (h *VideoFileHolder) DeleteAll(ctx context.Context, v *model.Video) []string {
	if h.files == nil {
		return nil
	}

	var deleted []string

	for _, name := range v.Files() {
		if h.remove(ctx, v.ID, name) {
			deleted = append(deleted, name)
		}
	}

	return deleted
}

func (h *VideoFileHolder) remove(ctx context.Context, videoID, name string) bool {
	if h.files == nil {
		return false
	}

	if err := h.files.Delete(ctx, FileKey(videoID, name)); err != nil {
		l := nlog.Component("files")
		l.Warn().Err(err).Str("video_id", videoID).Str("file", name).Msg("delete video file failed")

		return false
	}

	return true
}
