package queue

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/foodkart-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderPlaced 下单完成后的事件投递任务
	TaskOrderPlaced = constants.TaskOrderPlaced
)

// OrderPlacedPayload 下单事件任务载荷
type OrderPlacedPayload struct {
	OrderID uint   `json:"order_id"`
	OrderNo string `json:"order_no"`
}

// NewOrderPlacedTask 创建下单事件任务
func NewOrderPlacedTask(payload OrderPlacedPayload) (*asynq.Task, error) {
	if strings.TrimSpace(payload.OrderNo) == "" {
		return nil, fmt.Errorf("order_no is required")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPlaced, body), nil
}

// ParseOrderPlacedPayload 解析下单事件任务载荷
func ParseOrderPlacedPayload(task *asynq.Task) (OrderPlacedPayload, error) {
	var payload OrderPlacedPayload
	if task == nil {
		return payload, fmt.Errorf("nil task")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	if strings.TrimSpace(payload.OrderNo) == "" {
		return payload, fmt.Errorf("order_no is required")
	}
	return payload, nil
}
