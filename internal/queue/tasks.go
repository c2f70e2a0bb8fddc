package queue

import (
	"encoding/json"
	"errors"

	"github.com/souq-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderEventDispatch 订单事件投递任务
	TaskOrderEventDispatch = constants.TaskOrderEventDispatch
)

// OrderEventDispatchPayload 订单事件投递任务载荷
type OrderEventDispatchPayload struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	OrderID   uint   `json:"order_id"`
}

// NewOrderEventDispatchTask 创建订单事件投递任务
func NewOrderEventDispatchTask(payload OrderEventDispatchPayload) (*asynq.Task, error) {
	if payload.EventID == "" {
		return nil, errors.New("event id is required")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderEventDispatch, body), nil
}

// ParseOrderEventDispatchPayload 解析订单事件投递任务载荷
func ParseOrderEventDispatchPayload(body []byte) (OrderEventDispatchPayload, error) {
	var payload OrderEventDispatchPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, err
	}
	if payload.EventID == "" {
		return payload, errors.New("event id is required")
	}
	return payload, nil
}
