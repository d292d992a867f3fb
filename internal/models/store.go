package models

// Coordinate is a resolved postcode location.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Store is a single pharmacy location returned by the store search.
// Postcode and PhoneNumber are optional on the remote side and may be empty.
type Store struct {
	StoreID     int    `json:"storeId"`
	DisplayName string `json:"displayName"`
	Postcode    string `json:"postcode,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// StockRecord is one store's stock level for the queried medication.
// The stock endpoint returns store ids as strings; they are normalized
// to numeric form only when joined against Store.StoreID.
type StockRecord struct {
	StoreID    string `json:"storeId"`
	StockLevel string `json:"stockLevel"`
}

// StoreStock is a stock record joined back to its store metadata.
type StoreStock struct {
	StoreName        string `json:"storeName"`
	StorePostcode    string `json:"storePostcode,omitempty"`
	StorePhoneNumber string `json:"storePhoneNumber,omitempty"`
	StockStatus      string `json:"stockStatus"`
}

// StockLevelInStock is the retailer's code for available stock.
const StockLevelInStock = "G"
