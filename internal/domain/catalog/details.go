package catalog

import (
	"github.com/retaildash/backend/internal/domain/shared"
)

// Category is the product family; each family carries its own detail record
type Category string

const (
	CategoryIPhone  Category = "iPhone"
	CategoryCharger Category = "Charger"
	CategoryCable   Category = "Cable"
	CategoryAirPod  Category = "AirPod"
)

// AllCategories lists every product category
func AllCategories() []Category {
	return []Category{CategoryIPhone, CategoryCharger, CategoryCable, CategoryAirPod}
}

// IsValid checks if the category is one of the known values
func (c Category) IsValid() bool {
	switch c {
	case CategoryIPhone, CategoryCharger, CategoryCable, CategoryAirPod:
		return true
	}
	return false
}

// Details is the category-specific part of a product.
// The set of implementations is closed: IPhoneDetails, ChargerDetails,
// CableDetails and AirPodDetails.
type Details interface {
	Category() Category
	Validate() error
	sealed()
}

// IPhoneColor is a finish an iPhone is sold in
type IPhoneColor string

const (
	IPhoneColorBlack  IPhoneColor = "Black"
	IPhoneColorWhite  IPhoneColor = "White"
	IPhoneColorRed    IPhoneColor = "Red"
	IPhoneColorBlue   IPhoneColor = "Blue"
	IPhoneColorGreen  IPhoneColor = "Green"
	IPhoneColorPurple IPhoneColor = "Purple"
	IPhoneColorYellow IPhoneColor = "Yellow"
	IPhoneColorPink   IPhoneColor = "Pink"
	IPhoneColorGold   IPhoneColor = "Gold"
	IPhoneColorSilver IPhoneColor = "Silver"
)

// AllIPhoneColors lists every iPhone color
func AllIPhoneColors() []IPhoneColor {
	return []IPhoneColor{
		IPhoneColorBlack, IPhoneColorWhite, IPhoneColorRed, IPhoneColorBlue, IPhoneColorGreen,
		IPhoneColorPurple, IPhoneColorYellow, IPhoneColorPink, IPhoneColorGold, IPhoneColorSilver,
	}
}

// IPhoneStorage is an iPhone storage capacity
type IPhoneStorage string

const (
	IPhoneStorage64GB  IPhoneStorage = "64GB"
	IPhoneStorage128GB IPhoneStorage = "128GB"
	IPhoneStorage256GB IPhoneStorage = "256GB"
	IPhoneStorage512GB IPhoneStorage = "512GB"
	IPhoneStorage1TB   IPhoneStorage = "1TB"
)

// AllIPhoneStorages lists every iPhone storage option
func AllIPhoneStorages() []IPhoneStorage {
	return []IPhoneStorage{
		IPhoneStorage64GB, IPhoneStorage128GB, IPhoneStorage256GB, IPhoneStorage512GB, IPhoneStorage1TB,
	}
}

// ChargerWattage is a charger power rating
type ChargerWattage string

const (
	ChargerWattage5W  ChargerWattage = "5W"
	ChargerWattage12W ChargerWattage = "12W"
	ChargerWattage18W ChargerWattage = "18W"
	ChargerWattage20W ChargerWattage = "20W"
	ChargerWattage30W ChargerWattage = "30W"
	ChargerWattage35W ChargerWattage = "35W"
	ChargerWattage67W ChargerWattage = "67W"
)

// AllChargerWattages lists every charger wattage
func AllChargerWattages() []ChargerWattage {
	return []ChargerWattage{
		ChargerWattage5W, ChargerWattage12W, ChargerWattage18W, ChargerWattage20W,
		ChargerWattage30W, ChargerWattage35W, ChargerWattage67W,
	}
}

// CableType is the connector pairing of a cable
type CableType string

const (
	CableTypeUSBCToLightning CableType = "USB-C to Lightning"
	CableTypeUSBCToUSBC      CableType = "USB-C to USB-C"
	CableTypeUSBAToLightning CableType = "USB-A to Lightning"
)

// AllCableTypes lists every cable type
func AllCableTypes() []CableType {
	return []CableType{CableTypeUSBCToLightning, CableTypeUSBCToUSBC, CableTypeUSBAToLightning}
}

func oneOf[T comparable](v T, options []T) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}

// IPhoneDetails holds the attributes of an iPhone
type IPhoneDetails struct {
	Color   IPhoneColor
	Storage IPhoneStorage
}

func (IPhoneDetails) Category() Category { return CategoryIPhone }
func (IPhoneDetails) sealed()            {}

// Validate checks color and storage against the known options
func (d IPhoneDetails) Validate() error {
	if !oneOf(d.Color, AllIPhoneColors()) {
		return shared.NewDomainErrorf("INVALID_COLOR", "Unknown iPhone color %q", d.Color)
	}
	if !oneOf(d.Storage, AllIPhoneStorages()) {
		return shared.NewDomainErrorf("INVALID_STORAGE", "Unknown iPhone storage %q", d.Storage)
	}
	return nil
}

// ChargerDetails holds the attributes of a charger
type ChargerDetails struct {
	Wattage        ChargerWattage
	IsFastCharging bool
}

func (ChargerDetails) Category() Category { return CategoryCharger }
func (ChargerDetails) sealed()            {}

// Validate checks the wattage against the known options
func (d ChargerDetails) Validate() error {
	if !oneOf(d.Wattage, AllChargerWattages()) {
		return shared.NewDomainErrorf("INVALID_WATTAGE", "Unknown charger wattage %q", d.Wattage)
	}
	return nil
}

// CableDetails holds the attributes of a cable
type CableDetails struct {
	Type   CableType
	Length string
}

func (CableDetails) Category() Category { return CategoryCable }
func (CableDetails) sealed()            {}

// Validate checks the cable type and length
func (d CableDetails) Validate() error {
	if !oneOf(d.Type, AllCableTypes()) {
		return shared.NewDomainErrorf("INVALID_CABLE_TYPE", "Unknown cable type %q", d.Type)
	}
	if d.Length == "" {
		return shared.NewDomainError("INVALID_LENGTH", "Cable length cannot be empty")
	}
	if len(d.Length) > 20 {
		return shared.NewDomainError("INVALID_LENGTH", "Cable length cannot exceed 20 characters")
	}
	return nil
}

// AirPodDetails has no attributes; the detail record only marks the category
type AirPodDetails struct{}

func (AirPodDetails) Category() Category { return CategoryAirPod }
func (AirPodDetails) sealed()            {}

// Validate always succeeds
func (AirPodDetails) Validate() error { return nil }
