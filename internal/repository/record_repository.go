package repository

import (
    "context"
    "fmt"

    "gorm.io/gorm"

    "github.com/bubblecrawl/ingest-gateway/internal/model"
)

// RecordRepository 归档表的唯一写入口。
// 接口上只有 Insert：读/改/删对未受信路径不存在，
// 数据库角色本身也只授予 INSERT（见 deploy/a_dis.sql）
type RecordRepository interface {
    Insert(ctx context.Context, rec *model.Record) error
}

type recordRepository struct {
    db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) RecordRepository { return &recordRepository{db: db} }

// Insert 追加一条记录。主键冲突返回 ErrDuplicateKey，
// 绝不 upsert（ON CONFLICT DO UPDATE 需要 UPDATE 权限，角色没有）
func (r *recordRepository) Insert(ctx context.Context, rec *model.Record) error {
    if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
        if IsDuplicate(err) {
            return fmt.Errorf("insert %s: %w", rec.ID, ErrDuplicateKey)
        }
        return err
    }
    return nil
}
