// Package s3 基于 MinIO 客户端保存视频的图片与视频文件.
package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/videocatalog/pkg/configs"
	nlog "github.com/yeisme/videocatalog/pkg/log"
)

// Client 包装 MinIO 客户端，并固定到配置中的 bucket.
type Client struct {
	*minio.Client

	bucket  string
	prefix  string
	baseURL string
}

// New 按全局配置初始化 MinIO 客户端.
func New(ctx context.Context) (*Client, error) {
	return Open(ctx, configs.GetConfig().S3)
}

// Open 初始化 MinIO 客户端，bucket 不存在时尝试创建.
func Open(ctx context.Context, cfg configs.S3Config) (*Client, error) {
	endpoint := cfg.Endpoint
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			cfg.UseSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo(configs.AppName, configs.AppVersion)

	exists, err := cli.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.BucketName, err)
	}

	if !exists {
		if err := cli.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.BucketName, err)
		}

		nlog.Logger().Info().Str("bucket", cfg.BucketName).Msg("bucket created")
	}

	nlog.Logger().Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.BucketName).Msg("s3 connected")

	return &Client{
		Client:  cli,
		bucket:  cfg.BucketName,
		prefix:  strings.Trim(cfg.Prefix, "/"),
		baseURL: cfg.GetPublicBaseURL(),
	}, nil
}

// objectKey 在相对路径前加上统一前缀.
func (c *Client) objectKey(rel string) string {
	return path.Join(c.prefix, rel)
}

// Put 上传对象，rel 形如 "{video_id}/{file_name}".
func (c *Client) Put(ctx context.Context, rel string, r io.Reader, size int64, contentType string) error {
	_, err := c.PutObject(ctx, c.bucket, c.objectKey(rel), r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("put object %s: %w", rel, err)
	}

	return nil
}

// Delete 删除对象，对象不存在不视为错误.
func (c *Client) Delete(ctx context.Context, rel string) error {
	if err := c.RemoveObject(ctx, c.bucket, c.objectKey(rel), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", rel, err)
	}

	return nil
}

// URL 返回对象的公开访问地址.
func (c *Client) URL(rel string) string {
	return c.baseURL + "/" + c.objectKey(rel)
}

// HealthCheck 通过检查 bucket 验证连接.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.BucketExists(ctx, c.bucket)
	return err
}

// Close 关闭 S3 客户端连接（无实际操作，接口兼容）.
func (c *Client) Close() error {
	return nil
}
