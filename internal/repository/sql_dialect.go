package repository

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// supportsRowLock sqlite 不支持 FOR UPDATE，事务本身已串行写入。
func supportsRowLock(db *gorm.DB) bool {
	switch dbDialectName(db) {
	case "postgres", "postgresql", "mysql":
		return true
	default:
		return false
	}
}

// forUpdate 在支持的方言上追加行锁。
func forUpdate(db *gorm.DB) *gorm.DB {
	if !supportsRowLock(db) {
		return db
	}
	return db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}
