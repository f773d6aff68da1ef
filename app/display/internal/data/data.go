package data

import (
	"database/sql"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	_ "github.com/lib/pq"

	"github.com/iWorld-y/tender_audit/app/display/internal/conf"
	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/storage"
)

type Data struct {
	db    *sql.DB
	store *storage.Storage
}

func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	if c == nil || c.Database == nil {
		return nil, nil, fmt.Errorf("data.database is missing")
	}
	driver := c.Database.Driver
	if driver == "" {
		driver = "postgres"
	}
	db, err := sql.Open(driver, c.Database.Source)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, err
	}

	// 与命令行共用同一套表结构
	store, err := storage.NewWithDB(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
		db.Close()
	}
	return &Data{db: db, store: store}, cleanup, nil
}

// Store 供审核引擎写入报告
func (d *Data) Store() *storage.Storage {
	return d.store
}
