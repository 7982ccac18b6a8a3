package models

import "gorm.io/gorm"

// FuelData is the fuel-purchase payload of an EXPENSE transaction, keyed by
// the transaction it belongs to.
type FuelData struct {
	TransactionID int64    `gorm:"primaryKey;autoIncrement:false" json:"transactionId"`
	Liters        *float64 `json:"liters"`
	Kilometers    *float64 `json:"kilometers"`
	Consumption   *float64 `json:"consumption"`
}

// TableName overrides the pluralized default.
func (FuelData) TableName() string {
	return "fuel_data"
}

// CalculateConsumption sets and returns kilometers per liter. It is nil
// unless both readings are present and liters is positive.
func (f *FuelData) CalculateConsumption() *float64 {
	if f.Liters == nil || *f.Liters <= 0 || f.Kilometers == nil {
		f.Consumption = nil
		return nil
	}
	c := *f.Kilometers / *f.Liters
	f.Consumption = &c
	return f.Consumption
}

// BeforeSave keeps the stored consumption consistent with the readings.
func (f *FuelData) BeforeSave(tx *gorm.DB) error {
	f.CalculateConsumption()
	return nil
}
