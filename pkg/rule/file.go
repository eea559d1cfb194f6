package rule

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Image 上传文件的内容必须是图片（按文件头识别，不信任客户端声明的类型）.
func Image() Rule {
	return Func(func(_ *Context, _ string, value any) (any, error) {
		m, err := detect(value)
		if err != nil {
			return nil, err
		}

		for ; m != nil; m = m.Parent() {
			if strings.HasPrefix(m.String(), "image/") {
				return value, nil
			}
		}

		return nil, Violate("image", nil)
	})
}

// MimeTypes 上传文件的内容类型必须属于给定集合，例如 "video/mp4".
func MimeTypes(types ...string) Rule {
	return Func(func(_ *Context, _ string, value any) (any, error) {
		m, err := detect(value)
		if err != nil {
			return nil, err
		}

		for _, t := range types {
			if m.Is(t) {
				return value, nil
			}
		}

		return nil, Violate("mimetypes", map[string]any{"values": types})
	})
}

// detect 识别上传文件的类型，值不是文件或无法读取时返回 file 违规.
func detect(value any) (*mimetype.MIME, error) {
	fh, ok := value.(*multipart.FileHeader)
	if !ok || fh == nil {
		return nil, Violate("file", nil)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, Violate("file", map[string]any{"reason": err.Error()})
	}
	defer f.Close()

	m, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("detect %s: %w", fh.Filename, err)
	}

	return m, nil
}
