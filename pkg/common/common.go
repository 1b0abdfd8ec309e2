package common

import (
	"crypto/sha256"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	NA       = "N/A"
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	rand.New(rand.NewSource(time.Now().UnixNano()))
	var err error
	snowflakeNode, err = snowflake.NewNode(rand.Int63n(1023))
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a cluster-safe int64 identifier.
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// UUID returns the base36 string form of a snowflake identifier.
func UUID() string {
	return snowflakeNode.Generate().Base36()
}

// Sha256Hash returns the hex encoded sha256 of src.
func Sha256Hash(src string) string {
	h := sha256.New()
	h.Write([]byte(src))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// IsEmptyOrNA reports whether the value carries no usable content.
func IsEmptyOrNA(val string) bool {
	v := strings.TrimSpace(val)
	return v == "" || v == NA
}

// InSlice reports whether v is a member of vals.
func InSlice(v string, vals []string) bool {
	for _, s := range vals {
		if s == v {
			return true
		}
	}
	return false
}
