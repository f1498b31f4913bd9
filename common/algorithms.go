package common

import (
	"fmt"

	"github.com/dchest/siphash"
)

func Siphash(left, right uint64, body []byte) uint64 {
	return siphash.Hash(left, right, body)
}

func Sipit(key []byte) uint64 {
	return Siphash(9007199254740993, 2147483647, key)
}

func Digest(parts ...string) string {
	body := []byte{}
	for _, part := range parts {
		body = append(body, part...)
		body = append(body, 0)
	}
	return fmt.Sprintf("%016x", Sipit(body))
}
