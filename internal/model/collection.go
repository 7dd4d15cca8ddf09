package model

type Collection struct {
	UUID string `db:"uuid" json:"uuid"`
	Name string `db:"name" json:"name"`
}
