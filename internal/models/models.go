package models

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email    string `gorm:"unique;not null"          json:"email"`
	Password string `gorm:"not null"                 json:"-"`
	Role     string `gorm:"not null;default:user"    json:"role"`
}

type Sweet struct {
	ID       uint    `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name     string  `gorm:"unique;not null;size:100"    json:"name"`
	Category string  `gorm:"not null"                    json:"category"`
	Price    float64 `gorm:"not null;type:decimal(10,2)" json:"price"`
	Quantity uint    `json:"quantity"`
}
