package kv

import (
	"bytes"
	"encoding/binary"
	"errors"
	"time"
)

// 不支持原生过期的后端（memory、nats kv、groupcache）在值前加过期头：
// sealMagic 后跟 8 字节大端 unix 纳秒时间戳.
var sealMagic = []byte("VCTTL2")

const sealHeaderLen = 6 + 8

var errCorruptSeal = errors.New("kv: corrupt expiry header")

// seal 为 ttl>0 的值加过期头，否则原样返回.
func seal(value []byte, ttl time.Duration, now time.Time) []byte {
	if ttl <= 0 {
		return value
	}

	out := make([]byte, sealHeaderLen, sealHeaderLen+len(value))
	copy(out, sealMagic)
	binary.BigEndian.PutUint64(out[len(sealMagic):], uint64(now.Add(ttl).UnixNano()))

	return append(out, value...)
}

// unseal 去掉过期头. live 为 false 表示已过期.
func unseal(b []byte, now time.Time) (value []byte, live bool, err error) {
	if !bytes.HasPrefix(b, sealMagic) {
		return b, true, nil
	}

	if len(b) < sealHeaderLen {
		return nil, false, errCorruptSeal
	}

	deadline := int64(binary.BigEndian.Uint64(b[len(sealMagic):sealHeaderLen]))
	if now.UnixNano() >= deadline {
		return nil, false, nil
	}

	return b[sealHeaderLen:], true, nil
}
