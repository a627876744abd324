package transformers

import (
	"regexp"
	"strconv"
	"strings"

	"onchain-re-lending/internal/models"
)

var (
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
)

type propertyTransformer struct{}

func NewPropertyTransformer() PropertyTransformer {
	return &propertyTransformer{}
}

// ToRecentTransaction reshapes a dataset row for display. Unparsable numbers become 0.
func (t *propertyTransformer) ToRecentTransaction(record models.PropertyRecord) models.RecentTransaction {
	return models.RecentTransaction{
		District:        record.District,
		Address:         record.Address,
		Price:           ParseInt(record.TotalPrice),
		PricePerSqm:     ParseInt(record.UnitPrice),
		Area:            ParseFloat(record.BuildingArea),
		BuildingType:    record.BuildingType,
		Rooms:           record.Rooms,
		LivingRooms:     record.LivingRooms,
		Bathrooms:       record.Bathrooms,
		Floor:           record.Floor,
		TotalFloors:     record.TotalFloors,
		TransactionDate: record.TransactionDate,
		BuildYear:       record.CompletionDate,
	}
}

// UnitPrice returns the per-square-metre price and whether it is usable (parsed and > 0).
func (t *propertyTransformer) UnitPrice(record models.PropertyRecord) (float64, bool) {
	price := ParseFloat(record.UnitPrice)
	return price, price > 0
}

// TotalPrice returns the whole-transaction price and whether it is usable.
func (t *propertyTransformer) TotalPrice(record models.PropertyRecord) (float64, bool) {
	price := ParseFloat(record.TotalPrice)
	return price, price > 0
}

// TransactionDateKey is the sort key for a record's transaction date; 0 when unparsable.
func (t *propertyTransformer) TransactionDateKey(record models.PropertyRecord) int64 {
	return ParseInt(record.TransactionDate)
}

// ParseFloat reads the leading decimal number of s, like a lenient form parser would.
func ParseFloat(s string) float64 {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseInt reads the leading integer of s; 0 when there is none.
func ParseInt(s string) int64 {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
