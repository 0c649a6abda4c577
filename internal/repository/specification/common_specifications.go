package specification

import "gorm.io/gorm"

type Limit struct {
	Count int
}

func (s Limit) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Count)
}

type Offset struct {
	Count int
}

func (s Offset) Apply(db *gorm.DB) *gorm.DB {
	return db.Offset(s.Count)
}

type OrderBy struct {
	Expression string
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Order(s.Expression)
}
