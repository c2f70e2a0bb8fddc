package service

import (
	"context"
	"sort"

	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/repository"

	"gorm.io/gorm"
)

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	vendorRepo  repository.VendorRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, vendorRepo repository.VendorRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		vendorRepo:  vendorRepo,
	}
}

// CartVendorGroup 按商家分组的购物车视图
type CartVendorGroup struct {
	VendorID  uint              `json:"vendor_id"`
	StoreName string            `json:"store_name"`
	Currency  string            `json:"currency"`
	Items     []models.CartItem `json:"items"`
	Subtotal  models.Money      `json:"subtotal"`
	ItemCount int               `json:"item_count"`
}

// Get 获取购物车，不存在时创建
func (s *CartService) Get(ctx context.Context, userID uint) (*models.Cart, error) {
	var result *models.Cart
	err := s.cartRepo.Transaction(func(tx *gorm.DB) error {
		cart, err := s.loadOrCreate(s.cartRepo.WithTx(tx), userID)
		result = cart
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Add 加入购物车，已存在则合并数量并刷新价格
func (s *CartService) Add(ctx context.Context, userID, productID uint, quantity int) (*models.Cart, error) {
	if productID == 0 {
		return nil, newValidationError("productId", "Product ID is required")
	}
	if quantity < 1 {
		return nil, newValidationError("quantity", "Quantity must be at least 1")
	}
	return s.mutate(ctx, userID, func(repo repository.CartRepository, products repository.ProductRepository, cart *models.Cart) error {
		product, err := products.GetByID(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		if product.Status != constants.ProductStatusActive {
			return &ProductUnavailableError{ProductID: product.ID, Name: product.Name}
		}
		item, err := repo.GetItem(cart.ID, productID)
		if err != nil {
			return err
		}
		if item == nil {
			item = &models.CartItem{CartID: cart.ID, ProductID: product.ID}
		}
		combined := item.Quantity + quantity
		if combined > product.Stock {
			return &InsufficientStockError{ProductID: product.ID, Name: product.Name, Available: product.Stock}
		}
		item.Quantity = combined
		refreshCartItem(item, product)
		return repo.SaveItem(item)
	})
}

// UpdateQuantity 修改购物车项数量
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, newValidationError("quantity", "Quantity must be at least 1")
	}
	return s.mutate(ctx, userID, func(repo repository.CartRepository, products repository.ProductRepository, cart *models.Cart) error {
		item, err := repo.GetItem(cart.ID, productID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrCartItemNotFound
		}
		product, err := products.GetByID(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		if quantity > product.Stock {
			return &InsufficientStockError{ProductID: product.ID, Name: product.Name, Available: product.Stock}
		}
		item.Quantity = quantity
		refreshCartItem(item, product)
		return repo.SaveItem(item)
	})
}

// Remove 移除购物车项
func (s *CartService) Remove(ctx context.Context, userID, productID uint) (*models.Cart, error) {
	return s.mutate(ctx, userID, func(repo repository.CartRepository, _ repository.ProductRepository, cart *models.Cart) error {
		item, err := repo.GetItem(cart.ID, productID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrCartItemNotFound
		}
		_, err = repo.DeleteItem(cart.ID, item.ID)
		return err
	})
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, userID uint) (*models.Cart, error) {
	return s.mutate(ctx, userID, func(repo repository.CartRepository, _ repository.ProductRepository, cart *models.Cart) error {
		return repo.ClearItems(cart.ID)
	})
}

// GroupByVendor 按商家分组展示购物车（商家ID升序）
func (s *CartService) GroupByVendor(ctx context.Context, userID uint) ([]CartVendorGroup, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	groupMap := make(map[uint]*CartVendorGroup)
	vendorIDs := make([]uint, 0)
	for _, item := range cart.Items {
		group, ok := groupMap[item.VendorID]
		if !ok {
			group = &CartVendorGroup{
				VendorID: item.VendorID,
				Currency: item.Currency,
				Items:    []models.CartItem{},
				Subtotal: models.ZeroMoney(),
			}
			groupMap[item.VendorID] = group
			vendorIDs = append(vendorIDs, item.VendorID)
		}
		group.Items = append(group.Items, item)
		group.Subtotal = group.Subtotal.Plus(item.UnitPrice.Times(item.Quantity))
		group.ItemCount += item.Quantity
	}

	vendors, err := s.vendorRepo.ListByIDs(vendorIDs)
	if err != nil {
		return nil, err
	}
	for _, vendor := range vendors {
		if group, ok := groupMap[vendor.ID]; ok {
			group.StoreName = vendor.StoreName
		}
	}

	sort.Slice(vendorIDs, func(i, j int) bool { return vendorIDs[i] < vendorIDs[j] })
	groups := make([]CartVendorGroup, 0, len(vendorIDs))
	for _, id := range vendorIDs {
		groups = append(groups, *groupMap[id])
	}
	return groups, nil
}

type cartMutation func(repo repository.CartRepository, products repository.ProductRepository, cart *models.Cart) error

// mutate 在事务内修改购物车，随后重算派生字段并按版本号写回
func (s *CartService) mutate(ctx context.Context, userID uint, fn cartMutation) (*models.Cart, error) {
	var result *models.Cart
	err := s.cartRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.cartRepo.WithTx(tx)
		cart, err := s.loadOrCreate(repo, userID)
		if err != nil {
			return err
		}
		if err := fn(repo, s.productRepo.WithTx(tx), cart); err != nil {
			return err
		}
		reloaded, err := repo.GetByUser(userID)
		if err != nil {
			return err
		}
		reloaded.Recalculate()
		affected, err := repo.SaveTotals(reloaded, cart.Version)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrCheckoutConflict
		}
		result = reloaded
		return nil
	})
	if err != nil {
		if !isBusinessError(err) {
			logger.FromContext(ctx).Errorw("cart_mutation_failed", "user_id", userID, "error", err)
		}
		return nil, err
	}
	return result, nil
}

func (s *CartService) loadOrCreate(repo repository.CartRepository, userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, newValidationError("user", "user is required")
	}
	cart, err := repo.GetByUserForUpdate(userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	cart = &models.Cart{UserID: userID, Subtotals: models.CurrencyAmounts{}}
	if err := repo.Create(cart); err != nil {
		return nil, err
	}
	cart.Items = []models.CartItem{}
	return cart, nil
}

func refreshCartItem(item *models.CartItem, product *models.Product) {
	item.VendorID = product.VendorID
	item.UnitPrice = product.Price
	item.Currency = product.Currency
}
