package db

import "strings"

const sqliteBusyTimeoutMS = "5000"

// withSQLiteParam 在 DSN 未设置 busy timeout 时追加 param.
func withSQLiteParam(dsn, param string) string {
	if strings.Contains(dsn, "busy_timeout") {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}

	return dsn + sep + param
}
