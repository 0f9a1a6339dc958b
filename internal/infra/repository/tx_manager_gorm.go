package repository

import (
	"context"
	"database/sql"

	repo "github.com/MahyaarMaleki/storetrack/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	inventory  repo.InventoryRepository
	products   repo.ProductRepository
	histories  repo.HistoryRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposGorm) Inventory() repo.InventoryRepository  { return r.inventory }
func (r *txReposGorm) Products() repo.ProductRepository     { return r.products }
func (r *txReposGorm) Histories() repo.HistoryRepository    { return r.histories }

type TxManagerGorm struct {
	db   *gorm.DB
	opts *sql.TxOptions
}

// optsがnilならドライバのデフォルトの分離レベル
func NewTxManagerGorm(db *gorm.DB, opts *sql.TxOptions) *TxManagerGorm {
	return &TxManagerGorm{db: db, opts: opts}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	var txOpts []*sql.TxOptions
	if tm.opts != nil {
		txOpts = append(txOpts, tm.opts)
	}

	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:     NewOrderGormRepository(tx),
			orderItems: NewOrderItemGormRepository(tx),
			inventory:  NewInventoryGormRepository(tx),
			products:   NewProductGormRepository(tx),
			histories:  NewHistoryGormRepository(tx),
		}
		return fn(r)
	}, txOpts...)
}
