package store

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Dao struct {
	db *gorm.DB
}

func NewDao(url, scheme, user, passwd string) *Dao {
	dao := &Dao{}
	Logger := logger.Default
	Logger = Logger.LogMode(logger.Warn)
	db, err := gorm.Open(mysql.Open(user+":"+passwd+"@tcp("+url+")/"+
		scheme+"?charset=utf8"), &gorm.Config{Logger: Logger})
	if err != nil {
		panic(err)
	}
	err = db.AutoMigrate(&CandidateRecord{}, &SubmittedTrade{})
	if err != nil {
		panic(err)
	}
	dao.db = db
	return dao
}

func (dao *Dao) SaveCandidate(record *CandidateRecord) error {
	return dao.db.Create(record).Error
}

func (dao *Dao) SaveSubmittedTrade(trade *SubmittedTrade) error {
	return dao.db.Create(trade).Error
}

func (dao *Dao) SelectCandidate(id uint64) ([]*CandidateRecord, error) {
	records := make([]*CandidateRecord, 0)
	res := dao.db.Where("id = ?", id).Find(&records)
	return records, res.Error
}

func (dao *Dao) SelectSubmittedTrade(id uint64) ([]*SubmittedTrade, error) {
	trades := make([]*SubmittedTrade, 0)
	res := dao.db.Where("id = ?", id).Find(&trades)
	return trades, res.Error
}
