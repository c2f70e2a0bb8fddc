package repository

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page       int
	PageSize   int
	CustomerID uint
	VendorID   uint
	Status     string
}
