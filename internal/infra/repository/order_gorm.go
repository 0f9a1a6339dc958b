package repository

import (
	"context"
	"errors"

	"github.com/MahyaarMaleki/storetrack/internal/domain/model"
	repo "github.com/MahyaarMaleki/storetrack/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

// 同じtxで作った注文にだけ使う。値が変わらないとMySQLは0件を返すので件数は見ない
func (r *OrderGormRepository) UpdateTotal(ctx context.Context, orderID int64, total int64) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("total_price", total).Error
}

// 現在のステータスがfromのときだけ更新する
func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, from model.OrderStatus, to model.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64, withProducts bool) (model.Order, error) {
	q := r.db.WithContext(ctx).Preload("Items", orderItemsByID)
	if withProducts {
		//削除済みの商品も明細からは見える
		q = q.Preload("Items.Product", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() })
	}

	var o model.Order
	err := q.Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) List(ctx context.Context) ([]model.Order, error) {
	orders := []model.Order{}
	err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByID).
		Order("id desc").
		Find(&orders).Error
	if err != nil {
		return []model.Order{}, err
	}
	return orders, nil
}

// 明細→注文の順に消す（FKのCASCADEに頼らない）
func (r *OrderGormRepository) Delete(ctx context.Context, orderID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Order{}, orderID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

func orderItemsByID(tx *gorm.DB) *gorm.DB {
	return tx.Order("id asc")
}
