package utils

import "math/rand/v2"

// NewID 随机 63 位正整数；rand/v2 顶层函数并发安全，无需加锁。
// 不保证唯一，碰撞概率可接受。
func NewID() int64 {
	for {
		if id := rand.Int64(); id != 0 {
			return id
		}
	}
}
