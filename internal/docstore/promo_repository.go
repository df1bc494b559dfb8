package docstore

import (
	"context"
	"errors"
	"strings"

	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/repository"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// PromoRepository Firestore 优惠码仓库，按 code 字段查询
type PromoRepository struct {
	client      *firestore.Client
	collections Collections
}

// NewPromoRepository 创建 Firestore 优惠码仓库
func NewPromoRepository(client *firestore.Client, collections Collections) *PromoRepository {
	return &PromoRepository{client: client, collections: collections}
}

func (r *PromoRepository) findRef(ctx context.Context, code string) (*firestore.DocumentSnapshot, error) {
	iter := r.client.Collection(r.collections.Promos()).Where("code", "==", code).Limit(1).Documents(ctx)
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

// GetByCode 根据优惠码获取
func (r *PromoRepository) GetByCode(ctx context.Context, code string) (*models.Promo, error) {
	snap, err := r.findRef(ctx, code)
	if err != nil || snap == nil {
		return nil, err
	}
	var doc promoDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	return fromPromoDoc(doc), nil
}

// List 优惠码列表，Search 在内存中按子串过滤
func (r *PromoRepository) List(ctx context.Context, filter repository.PromoListFilter) ([]models.Promo, int64, error) {
	iter := r.client.Collection(r.collections.Promos()).OrderBy("code", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	search := strings.ToUpper(strings.TrimSpace(filter.Search))
	all := make([]models.Promo, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		var doc promoDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, 0, err
		}
		if search != "" && !strings.Contains(doc.Code, search) {
			continue
		}
		all = append(all, *fromPromoDoc(doc))
	}
	return paginate(all, filter.Page, filter.PageSize), int64(len(all)), nil
}

// Create 新建优惠码，文档 ID 使用 code
func (r *PromoRepository) Create(ctx context.Context, promo *models.Promo) error {
	_, err := r.client.Collection(r.collections.Promos()).Doc(promo.Code).Create(ctx, toPromoDoc(promo))
	return err
}

// Update 覆盖已有优惠码
func (r *PromoRepository) Update(ctx context.Context, promo *models.Promo) error {
	snap, err := r.findRef(ctx, promo.Code)
	if err != nil {
		return err
	}
	ref := r.client.Collection(r.collections.Promos()).Doc(promo.Code)
	if snap != nil {
		ref = snap.Ref
	}
	_, err = ref.Set(ctx, toPromoDoc(promo))
	return err
}

// Delete 删除优惠码
func (r *PromoRepository) Delete(ctx context.Context, code string) error {
	snap, err := r.findRef(ctx, code)
	if err != nil || snap == nil {
		return err
	}
	_, err = snap.Ref.Delete(ctx)
	return err
}

func paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
