package entities

type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:64;index;not null" json:"name"`
	MeasurementUnit string `gorm:"size:32;not null" json:"measurement_unit"`
}
