/*
 * @module service/ingestion/sql_loader
 * @description SQL报表批量装载器，从提交库整表或按查询读取为数据集
 * @architecture 分层架构 - 数据接入层
 * @documentReference ai_docs/submission_ingestion_req.md
 * @stateFlow 连接提交库 -> 查询 -> 行扫描 -> 数据集
 * @rules 提交库为只读数据来源，本服务不建表不写入；仅批量读取
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres
 * @refs service/init.go, service/validation_service.go
 */

package ingestion

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ibs-validation-service/service/dataset"
)

// OpenSubmissionsDB 连接提交数据库（postgres DSN）
func OpenSubmissionsDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("提交库连接失败: %w", err)
	}
	return db, nil
}

// LoadTable 整表装载为数据集
func LoadTable(db *gorm.DB, table string) (*dataset.Dataset, error) {
	var records []map[string]interface{}
	if err := db.Table(table).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("读取提交表 %s 失败: %w", table, err)
	}
	return fromRecords(records), nil
}

// LoadQuery 按SQL查询装载为数据集
func LoadQuery(db *gorm.DB, query string, args ...interface{}) (*dataset.Dataset, error) {
	var records []map[string]interface{}
	if err := db.Raw(query, args...).Scan(&records).Error; err != nil {
		return nil, fmt.Errorf("执行提交查询失败: %w", err)
	}
	return fromRecords(records), nil
}

func fromRecords(records []map[string]interface{}) *dataset.Dataset {
	rows := make([]dataset.Row, len(records))
	for i, record := range records {
		rows[i] = dataset.Row(record)
	}
	return dataset.New(rows)
}
