package services

import (
	"context"
	"math"
	"sort"
	"strings"

	apperrors "onchain-re-lending/internal/errors"
	"onchain-re-lending/internal/models"
	"onchain-re-lending/internal/transformers"
	"onchain-re-lending/pkg/logger"
	"onchain-re-lending/pkg/metrics"
	"onchain-re-lending/pkg/opendata"
)

const RecentTransactionLimit = 5

// OpenDataSource is the subset of the open-data client the cascade needs.
type OpenDataSource interface {
	BuildQueryURL(district, street string) string
	BuildBulkURL() string
	Fetch(ctx context.Context, step opendata.Step, rawURL string) ([]models.PropertyRecord, error)
}

type ValuationService struct {
	source    OpenDataSource
	addrTrans transformers.AddressTransformer
	trans     transformers.PropertyTransformer
}

func NewValuationService(
	source OpenDataSource,
	addrTrans transformers.AddressTransformer,
	trans transformers.PropertyTransformer,
) *ValuationService {
	return &ValuationService{
		source:    source,
		addrTrans: addrTrans,
		trans:     trans,
	}
}

// Valuate parses the address, resolves matching transactions and aggregates them.
func (s *ValuationService) Valuate(ctx context.Context, address string) (*models.ValuationResult, error) {
	result, _, err := s.Appraise(ctx, address)
	return result, err
}

// Appraise is Valuate plus the mean whole-transaction price of the matched
// records, the figure a loan is secured against. The property value is 0 when
// no record carries a usable total price.
func (s *ValuationService) Appraise(ctx context.Context, address string) (*models.ValuationResult, int64, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, 0, apperrors.MissingParameter("address")
	}

	components := s.addrTrans.ParseAddress(address)
	if components.District == "" {
		return nil, 0, apperrors.InvalidAddress(address)
	}

	records, err := s.Resolve(ctx, components)
	if err != nil {
		return nil, 0, err
	}

	result := s.Aggregate(records)
	result.SearchAddress = address
	return result, s.PropertyValue(records), nil
}

// Resolve runs the lookup cascade: filtered query, bulk fallback, main-street retry,
// district-only retry. Each step runs at most once and strictly in order.
func (s *ValuationService) Resolve(ctx context.Context, components models.AddressComponents) ([]models.PropertyRecord, error) {
	district := components.District
	street := components.PreferredStreet()

	records, err := s.source.Fetch(ctx, opendata.StepFiltered, s.source.BuildQueryURL(district, street))
	resolvedBy := opendata.StepFiltered
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.Internal("valuation request cancelled", ctx.Err())
		}
		logger.GlobalLogger.Printf("Filtered query failed, falling back to bulk query: district=%s, street=%s, error=%v", district, street, err)
		records, err = s.fetchBulk(ctx, district, street)
		if err != nil {
			return nil, err
		}
		resolvedBy = opendata.StepBulk
	}

	if len(records) == 0 && street != "" {
		if mainStreet := s.addrTrans.MainStreet(street); mainStreet != "" && mainStreet != street {
			records = s.fetchOrEmpty(ctx, opendata.StepMainStreet, district, mainStreet)
			resolvedBy = opendata.StepMainStreet
		}
		if len(records) == 0 {
			records = s.fetchOrEmpty(ctx, opendata.StepDistrictOnly, district, "")
			resolvedBy = opendata.StepDistrictOnly
		}
	}

	if ctx.Err() != nil {
		return nil, apperrors.Internal("valuation request cancelled", ctx.Err())
	}
	if len(records) == 0 {
		metrics.ValuationResolutionsTotal.WithLabelValues("none").Inc()
		return nil, apperrors.NoMatchingRecords(models.SearchCriteria{District: district, Street: street})
	}

	metrics.ValuationResolutionsTotal.WithLabelValues(string(resolvedBy)).Inc()
	logger.GlobalLogger.Debugf("Valuation resolved: district=%s, street=%s, step=%s, count=%d", district, street, resolvedBy, len(records))
	return records, nil
}

func (s *ValuationService) fetchBulk(ctx context.Context, district, street string) ([]models.PropertyRecord, error) {
	all, err := s.source.Fetch(ctx, opendata.StepBulk, s.source.BuildBulkURL())
	if err != nil {
		logger.GlobalLogger.Errorf("Bulk query failed: district=%s, error=%v", district, err)
		return nil, apperrors.UpstreamUnavailable(err)
	}

	matched := make([]models.PropertyRecord, 0)
	for _, record := range all {
		if record.District != district {
			continue
		}
		if street != "" && !strings.Contains(record.Address, street) {
			continue
		}
		matched = append(matched, record)
	}
	return matched, nil
}

// fetchOrEmpty treats any failure of a retry step as "no records".
func (s *ValuationService) fetchOrEmpty(ctx context.Context, step opendata.Step, district, street string) []models.PropertyRecord {
	if ctx.Err() != nil {
		return nil
	}
	records, err := s.source.Fetch(ctx, step, s.source.BuildQueryURL(district, street))
	if err != nil {
		logger.GlobalLogger.Printf("Retry query returned no usable data: step=%s, district=%s, street=%s, error=%v", step, district, street, err)
		return nil
	}
	return records
}

// PropertyValue is the rounded mean of the usable total prices.
func (s *ValuationService) PropertyValue(records []models.PropertyRecord) int64 {
	var sum float64
	var count int
	for _, record := range records {
		if price, ok := s.trans.TotalPrice(record); ok {
			sum += price
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return int64(math.Round(sum / float64(count)))
}

// Aggregate computes price statistics over the unit price of each record.
// Records without a positive unit price still count toward MatchCount.
func (s *ValuationService) Aggregate(records []models.PropertyRecord) *models.ValuationResult {
	result := &models.ValuationResult{
		MatchCount:         len(records),
		RecentTransactions: make([]models.RecentTransaction, 0, RecentTransactionLimit),
	}

	var sum float64
	var count int
	minPrice, maxPrice := math.Inf(1), math.Inf(-1)
	for _, record := range records {
		price, ok := s.trans.UnitPrice(record)
		if !ok {
			continue
		}
		sum += price
		count++
		minPrice = math.Min(minPrice, price)
		maxPrice = math.Max(maxPrice, price)
	}
	if count > 0 {
		result.EstimatedValue = int64(math.Round(sum / float64(count)))
		result.PriceRange = models.PriceRange{Min: minPrice, Max: maxPrice}
	}

	sorted := make([]models.PropertyRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return s.trans.TransactionDateKey(sorted[i]) > s.trans.TransactionDateKey(sorted[j])
	})
	if len(sorted) > RecentTransactionLimit {
		sorted = sorted[:RecentTransactionLimit]
	}
	for _, record := range sorted {
		result.RecentTransactions = append(result.RecentTransactions, s.trans.ToRecentTransaction(record))
	}
	return result
}
