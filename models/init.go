package models

import (
	"placepix/db"
)

func Init() {
	db.Instance.AutoMigrate(&Country{})
	db.Instance.AutoMigrate(&City{})
	db.Instance.AutoMigrate(&Place{})
	db.Instance.AutoMigrate(&Image{})
	db.Instance.AutoMigrate(&QueueEntry{})
}
