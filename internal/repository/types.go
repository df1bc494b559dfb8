package repository

// RestaurantListFilter 查询餐厅列表的过滤条件
type RestaurantListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	IdentityKey string
	UserID      uint
	OrderNo     string
	Status      string
}

// PromoListFilter 查询优惠码列表的过滤条件
type PromoListFilter struct {
	Page     int
	PageSize int
	Search   string
}
