package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/souq-next/internal/constants"
)

// generateOrderNumber 生成 ORD-YYYYMMDD-NNNNN 格式订单号
func generateOrderNumber(now time.Time) string {
	return fmt.Sprintf("%s-%s-%05d", constants.OrderNumberPrefix, now.Format("20060102"), 10000+randIntn(90000))
}

func randIntn(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return time.Now().UnixNano() % n
	}
	return v.Int64()
}
