// Package main 启动应用程序
package main

import (
	"os"

	"github.com/yeisme/videocatalog/pkg/cmd"
)

//	@title			VideoCatalog API
//	@version		1.0
//	@description	视频目录管理后台：分类、类型、演职人员与视频的增删改查、批量删除与文件上传。
//	@BasePath		/

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

//	@contact.name	yeisme
//	@contact.email	yefun2004@gmail.com.

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
