package models

import "time"

type ProductStatus string

const (
	ProductStatusPending  ProductStatus = "pending"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusRejected ProductStatus = "rejected"
)

// Tracked product keys.
const (
	ProductEtoricox60  = "etoricox60"
	ProductEtoricox90  = "etoricox90"
	ProductEtoricox120 = "etoricox120"
	ProductFlexilax    = "flexilax"
	ProductMiacalcic   = "miacalcic"
)

var ProductKeys = []string{
	ProductEtoricox60,
	ProductEtoricox90,
	ProductEtoricox120,
	ProductFlexilax,
	ProductMiacalcic,
}

func IsProductKey(key string) bool {
	for _, k := range ProductKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusPending, ProductStatusActive, ProductStatusRejected:
		return true
	}
	return false
}

// InitialProducts returns every tracked product set to pending.
func InitialProducts() map[string]ProductStatus {
	products := make(map[string]ProductStatus, len(ProductKeys))
	for _, key := range ProductKeys {
		products[key] = ProductStatusPending
	}
	return products
}

type HospitalVisit struct {
	Date      string `json:"date" bson:"date"`
	Feedback  string `json:"feedback" bson:"feedback"`
	VisitedBy string `json:"visitedBy" bson:"visitedBy"`
}

type Hospital struct {
	ID             string                   `json:"id" bson:"_id"`
	Name           string                   `json:"name" bson:"name"`
	Location       string                   `json:"location" bson:"location"`
	ContactPerson  string                   `json:"contactPerson" bson:"contactPerson"`
	Phone          string                   `json:"phone" bson:"phone"`
	Representative string                   `json:"representative" bson:"representative"`
	RepName        string                   `json:"repName" bson:"repName"`
	Products       map[string]ProductStatus `json:"products" bson:"products"`
	Visits         []HospitalVisit          `json:"visits" bson:"visits"`
	CreatedAt      time.Time                `json:"createdAt" bson:"createdAt"`
	Seq            int64                    `json:"-" bson:"seq"`
}
