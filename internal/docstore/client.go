// Package docstore 提供基于 Firestore 的购物车、订单与优惠码存储
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	collectionCarts  = "carts"
	collectionOrders = "orders"
	collectionPromos = "promos"
)

// ErrProjectIDMissing 未配置 project_id
var ErrProjectIDMissing = errors.New("firestore project id is required")

// NewClient 创建 Firestore 客户端；凭据走 ADC 或 FIRESTORE_EMULATOR_HOST
func NewClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, ErrProjectIDMissing
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return client, nil
}

// Collections 带前缀的集合名
type Collections struct {
	prefix string
}

// NewCollections 创建集合命名器
func NewCollections(prefix string) Collections {
	return Collections{prefix: strings.TrimSpace(prefix)}
}

func (c Collections) name(base string) string {
	if c.prefix == "" {
		return base
	}
	return c.prefix + "_" + base
}

// Carts 购物车集合
func (c Collections) Carts() string { return c.name(collectionCarts) }

// Orders 订单集合
func (c Collections) Orders() string { return c.name(collectionOrders) }

// Promos 优惠码集合
func (c Collections) Promos() string { return c.name(collectionPromos) }

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
