package service

import (
	"strings"

	"github.com/souq-next/internal/constants"
)

// 订单前进顺序，取消为终态不参与排序
var orderStatusRank = map[string]int{
	constants.OrderStatusPending:    0,
	constants.OrderStatusConfirmed:  1,
	constants.OrderStatusProcessing: 2,
	constants.OrderStatusShipped:    3,
	constants.OrderStatusDelivered:  4,
}

// 商家可设置的目标状态
var vendorSettableStatuses = map[string]struct{}{
	constants.OrderStatusConfirmed:  {},
	constants.OrderStatusProcessing: {},
	constants.OrderStatusShipped:    {},
	constants.OrderStatusDelivered:  {},
}

// 可取消的来源状态
var cancellableStatuses = []string{
	constants.OrderStatusPending,
	constants.OrderStatusConfirmed,
}

func normalizeOrderStatus(status string) string {
	return strings.ToUpper(strings.TrimSpace(status))
}

func isVendorSettableStatus(status string) bool {
	_, ok := vendorSettableStatuses[status]
	return ok
}

func isCancellableStatus(status string) bool {
	for _, s := range cancellableStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// isForwardTransition 判断是否为合法前进（允许跳级，不允许回退）
func isForwardTransition(from, to string) bool {
	fromRank, ok := orderStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := orderStatusRank[to]
	if !ok {
		return false
	}
	if from == constants.OrderStatusDelivered {
		return false
	}
	return toRank > fromRank
}

// legalSourcesFor 返回可以前进到目标状态的所有来源状态
func legalSourcesFor(to string) []string {
	toRank, ok := orderStatusRank[to]
	if !ok {
		return nil
	}
	sources := make([]string, 0, toRank)
	for _, status := range []string{
		constants.OrderStatusPending,
		constants.OrderStatusConfirmed,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
	} {
		if orderStatusRank[status] < toRank {
			sources = append(sources, status)
		}
	}
	return sources
}
