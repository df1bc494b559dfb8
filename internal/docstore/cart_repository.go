package docstore

import (
	"context"

	"github.com/foodkart-next/internal/models"

	"cloud.google.com/go/firestore"
)

// CartRepository Firestore 购物车仓库，文档路径 carts/{ownerKey}
type CartRepository struct {
	client      *firestore.Client
	collections Collections
}

// NewCartRepository 创建 Firestore 购物车仓库
func NewCartRepository(client *firestore.Client, collections Collections) *CartRepository {
	return &CartRepository{client: client, collections: collections}
}

// Get 获取购物车，文档不存在返回 nil, nil
func (r *CartRepository) Get(ctx context.Context, ownerKey string) (*models.Cart, error) {
	snap, err := r.client.Collection(r.collections.Carts()).Doc(ownerKey).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var doc cartDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	return &models.Cart{
		OwnerKey:  ownerKey,
		Items:     fromLineDocs(doc.Items),
		CreatedAt: snap.CreateTime,
		UpdatedAt: snap.UpdateTime,
	}, nil
}

// Save 整体覆盖写入
func (r *CartRepository) Save(ctx context.Context, ownerKey string, lines models.CartLines) error {
	_, err := r.client.Collection(r.collections.Carts()).Doc(ownerKey).Set(ctx, cartDoc{Items: toLineDocs(lines)})
	return err
}
