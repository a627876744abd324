package models

// PropertyRecord is one row of the New Taipei City real-price registration dataset.
// Field names follow the dataset; every value arrives as a string.
type PropertyRecord struct {
	District             string `json:"district"`
	TransactionTarget    string `json:"rps01"`
	Address              string `json:"rps02"`
	LandArea             string `json:"rps03_area"`
	UrbanZoning          string `json:"rps04"`
	NonUrbanZoning       string `json:"rps05"`
	NonUrbanDesignation  string `json:"rps06"`
	TransactionDate      string `json:"rps07_yyymmddroc"`
	TransactionUnits     string `json:"rps08"`
	Floor                string `json:"rps09"`
	TotalFloors          string `json:"rps10"`
	BuildingType         string `json:"rps11"`
	MainUse              string `json:"rps12"`
	MainMaterial         string `json:"rps13"`
	CompletionDate       string `json:"rps14_yyymmddroc"`
	BuildingArea         string `json:"rps15_area"`
	Rooms                string `json:"rps16_quantity"`
	LivingRooms          string `json:"rps17_quantity"`
	Bathrooms            string `json:"rps18_quantity"`
	Partitioned          string `json:"rps19"`
	ManagementOrg        string `json:"rps20"`
	TotalPrice           string `json:"rps21_amountsunitdollars"`
	UnitPrice            string `json:"rps22_amountsunitdollars"`
	ParkingType          string `json:"rps23"`
	ParkingArea          string `json:"rps24_area"`
	ParkingPrice         string `json:"rps25_amountsunitdollars"`
	Note                 string `json:"rps26"`
	SerialNumber         string `json:"rps27"`
	MainBuildingArea     string `json:"rps28_area"`
	AncillaryArea        string `json:"rps29_area"`
	BalconyArea          string `json:"rps30_area"`
	Elevator             string `json:"rps31"`
	TransferSerialNumber string `json:"rps32"`
}

// AddressComponents is what the parser extracts from a free-text address.
// Empty strings mean "not found".
type AddressComponents struct {
	District        string `json:"district"`
	StreetFullWidth string `json:"streetFullWidth,omitempty"`
	StreetHalfWidth string `json:"streetHalfWidth,omitempty"`
}

// PreferredStreet is the token used for filtering: the dataset stores full-width numerals.
func (a AddressComponents) PreferredStreet() string {
	if a.StreetFullWidth != "" {
		return a.StreetFullWidth
	}
	return a.StreetHalfWidth
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RecentTransaction is the display shape of a matched record.
type RecentTransaction struct {
	District        string  `json:"district"`
	Address         string  `json:"address"`
	Price           int64   `json:"price"`
	PricePerSqm     int64   `json:"pricePerSqm"`
	Area            float64 `json:"area"`
	BuildingType    string  `json:"buildingType"`
	Rooms           string  `json:"rooms"`
	LivingRooms     string  `json:"livingRooms"`
	Bathrooms       string  `json:"bathrooms"`
	Floor           string  `json:"floor"`
	TotalFloors     string  `json:"totalFloors"`
	TransactionDate string  `json:"transactionDate"`
	BuildYear       string  `json:"buildYear"`
}

type ValuationResult struct {
	SearchAddress      string              `json:"searchAddress"`
	MatchCount         int                 `json:"matchCount"`
	EstimatedValue     int64               `json:"estimatedValue"`
	PriceRange         PriceRange          `json:"priceRange"`
	RecentTransactions []RecentTransaction `json:"recentTransactions"`
}

type ValuationResponse struct {
	Success bool             `json:"success"`
	Data    *ValuationResult `json:"data"`
}

// SearchCriteria is echoed back when no records match.
type SearchCriteria struct {
	District string `json:"district"`
	Street   string `json:"street"`
}
