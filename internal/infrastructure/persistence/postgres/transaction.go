// Package postgres 提供 PostgreSQL 数据库访问层实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"newsroom-ai-api/internal/domain/repository"
)

// TxManager 事务管理器
type TxManager struct {
	client *Client
}

// NewTxManager 创建事务管理器
func NewTxManager(client *Client) *TxManager {
	return &TxManager{client: client}
}

// WithTransaction 在事务中执行操作
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// 已在事务中时直接复用
	if tx := getTxFromContext(ctx); tx != nil {
		return fn(ctx)
	}

	tx := m.client.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	// 将事务放入上下文
	txCtx := context.WithValue(ctx, repository.TxKey{}, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return fmt.Errorf("rollback failed: %v, original error: %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// getTxFromContext 从上下文获取事务
func getTxFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(repository.TxKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// getDB 根据上下文选择事务或普通连接
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := getTxFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}
