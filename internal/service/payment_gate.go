package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentGate 下单前的支付确认
type PaymentGate interface {
	Confirm(totals PricedTotals, entered string) error
}

// ConfirmationMismatchError 确认金额不符，携带期望金额
type ConfirmationMismatchError struct {
	Expected string
}

func (e *ConfirmationMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s", ErrConfirmationMismatch.Error(), e.Expected)
}

// Is 与 ErrConfirmationMismatch 匹配
func (e *ConfirmationMismatchError) Is(target error) bool {
	return target == ErrConfirmationMismatch
}

// AmountConfirmationGate 模拟支付：用户输入的金额须与应付总额一致（两位小数比较）
type AmountConfirmationGate struct{}

// NewAmountConfirmationGate 创建金额确认网关
func NewAmountConfirmationGate() *AmountConfirmationGate {
	return &AmountConfirmationGate{}
}

// Confirm 校验输入金额
func (g *AmountConfirmationGate) Confirm(totals PricedTotals, entered string) error {
	expected := totals.GrandTotal.Decimal.Round(2)
	raw := strings.TrimPrefix(strings.TrimSpace(entered), "$")
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !amount.Round(2).Equal(expected) {
		return &ConfirmationMismatchError{Expected: expected.StringFixed(2)}
	}
	return nil
}
