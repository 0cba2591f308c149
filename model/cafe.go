package model

// Cafe is one venue in the directory. Seats and CoffeePrice are free text
// as submitted ("5", "£2.50"); nothing parses them.
type Cafe struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"size:250;uniqueIndex"`
	MapURL       string `json:"map_url" gorm:"size:500"`
	ImgURL       string `json:"img_url" gorm:"size:500"`
	Location     string `json:"location" gorm:"size:250"`
	Seats        string `json:"seats" gorm:"size:250"`
	HasToilet    bool   `json:"has_toilet"`
	HasWifi      bool   `json:"has_wifi"`
	HasSockets   bool   `json:"has_sockets"`
	CanTakeCalls bool   `json:"can_take_calls"`
	CoffeePrice  string `json:"coffee_price" gorm:"size:250"`
}

// TableName keeps gorm from pluralising Cafe as "caves".
func (Cafe) TableName() string {
	return "cafes"
}
