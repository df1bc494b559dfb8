package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/repository"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// orderNoField 订单号字段，文档 ID 由 Firestore 自动生成
const orderNoField = "orderNo"

// ErrOrderNoTaken 订单号已存在
var ErrOrderNoTaken = errors.New("order number already taken")

// OrderRepository Firestore 订单仓库
type OrderRepository struct {
	client      *firestore.Client
	collections Collections
}

// NewOrderRepository 创建 Firestore 订单仓库
func NewOrderRepository(client *firestore.Client, collections Collections) *OrderRepository {
	return &OrderRepository{client: client, collections: collections}
}

func (r *OrderRepository) byOrderNo(orderNo string) firestore.Query {
	return r.client.Collection(r.collections.Orders()).Where(orderNoField, "==", orderNo).Limit(1)
}

// Create 单文档写入，订单与订单项原子落库；事务内校验订单号唯一
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	ref := r.client.Collection(r.collections.Orders()).NewDoc()
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(r.byOrderNo(order.OrderNo)).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrOrderNoTaken
		}
		return tx.Create(ref, toOrderDoc(order))
	})
	if err != nil {
		return err
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	return nil
}

// ExistsOrderNo 订单号是否已被占用
func (r *OrderRepository) ExistsOrderNo(ctx context.Context, orderNo string) (bool, error) {
	snap, err := r.findByOrderNo(ctx, orderNo)
	if err != nil {
		return false, err
	}
	return snap != nil, nil
}

// GetByOrderNo 根据订单号获取订单
func (r *OrderRepository) GetByOrderNo(ctx context.Context, orderNo string) (*models.Order, error) {
	snap, err := r.findByOrderNo(ctx, orderNo)
	if err != nil || snap == nil {
		return nil, err
	}
	var doc orderDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	return fromOrderDoc(doc), nil
}

func (r *OrderRepository) findByOrderNo(ctx context.Context, orderNo string) (*firestore.DocumentSnapshot, error) {
	iter := r.byOrderNo(orderNo).Documents(ctx)
	defer iter.Stop()
	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// List 订单列表（按创建时间倒序）
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	query := r.client.Collection(r.collections.Orders()).Query
	if filter.IdentityKey != "" {
		query = query.Where("identityKey", "==", filter.IdentityKey)
	}
	if filter.UserID != 0 {
		query = query.Where("userId", "==", int64(filter.UserID))
	}
	if filter.OrderNo != "" {
		query = query.Where(orderNoField, "==", filter.OrderNo)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", filter.Status)
	}

	refs, err := query.Select().Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(refs))

	paged := query.OrderBy("createdAt", firestore.Desc)
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		paged = paged.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	iter := paged.Documents(ctx)
	defer iter.Stop()

	orders := make([]models.Order, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		var doc orderDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, 0, err
		}
		orders = append(orders, *fromOrderDoc(doc))
	}
	return orders, total, nil
}
