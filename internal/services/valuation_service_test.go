package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "onchain-re-lending/internal/errors"
	"onchain-re-lending/internal/models"
	"onchain-re-lending/internal/transformers"
	"onchain-re-lending/pkg/opendata"
)

type fetchCall struct {
	step     opendata.Step
	district string
	street   string
}

type stepResult struct {
	records []models.PropertyRecord
	err     error
}

// fakeSource answers each cascade step from a table and records the calls it saw.
type fakeSource struct {
	results map[opendata.Step]stepResult
	calls   []fetchCall
}

func (f *fakeSource) BuildQueryURL(district, street string) string {
	return fmt.Sprintf("q|%s|%s", district, street)
}

func (f *fakeSource) BuildBulkURL() string {
	return "bulk"
}

func (f *fakeSource) Fetch(_ context.Context, step opendata.Step, rawURL string) ([]models.PropertyRecord, error) {
	var district, street string
	if parts := strings.Split(rawURL, "|"); len(parts) == 3 {
		district, street = parts[1], parts[2]
	}
	f.calls = append(f.calls, fetchCall{step: step, district: district, street: street})
	r := f.results[step]
	return r.records, r.err
}

func (f *fakeSource) steps() []opendata.Step {
	steps := make([]opendata.Step, 0, len(f.calls))
	for _, c := range f.calls {
		steps = append(steps, c.step)
	}
	return steps
}

func newTestValuationService(src OpenDataSource) *ValuationService {
	return NewValuationService(src, transformers.NewAddressTransformer(), transformers.NewPropertyTransformer())
}

func record(district, address, unitPrice, date string) models.PropertyRecord {
	return models.PropertyRecord{
		District:        district,
		Address:         address,
		UnitPrice:       unitPrice,
		TotalPrice:      "10000000",
		BuildingArea:    "80.5",
		TransactionDate: date,
	}
}

func TestValuate_FilteredQueryHit(t *testing.T) {
	src := &fakeSource{results: map[opendata.Step]stepResult{
		opendata.StepFiltered: {records: []models.PropertyRecord{
			record("板橋區", "板橋區文化路一段1號", "800000", "1130101"),
			record("板橋區", "板橋區文化路一段2號", "900000", "1130201"),
			record("板橋區", "板橋區文化路一段3號", "1000000", "1130301"),
		}},
	}}

	result, err := newTestValuationService(src).Valuate(context.Background(), "新北市板橋區文化路一段")
	require.NoError(t, err)

	assert.Equal(t, []opendata.Step{opendata.StepFiltered}, src.steps())
	assert.Equal(t, "板橋區", src.calls[0].district)
	assert.Equal(t, "文化路", src.calls[0].street)
	assert.Equal(t, "新北市板橋區文化路一段", result.SearchAddress)
	assert.Equal(t, 3, result.MatchCount)
	assert.Equal(t, int64(900000), result.EstimatedValue)
	assert.Equal(t, models.PriceRange{Min: 800000, Max: 1000000}, result.PriceRange)
	require.Len(t, result.RecentTransactions, 3)
	assert.Equal(t, "1130301", result.RecentTransactions[0].TransactionDate)
}

func TestValuate_BulkFallbackFiltersInProcess(t *testing.T) {
	htmlErr := &opendata.UpstreamError{StatusCode: http.StatusOK, ContentType: "text/html", Err: opendata.ErrHTMLResponse}
	src := &fakeSource{results: map[opendata.Step]stepResult{
		opendata.StepFiltered: {err: htmlErr},
		opendata.StepBulk: {records: []models.PropertyRecord{
			record("板橋區", "板橋區文化路一段1號", "500000", "1130101"),
			record("中和區", "中和區文化路5號", "700000", "1130101"),
			record("板橋區", "板橋區中山路2號", "600000", "1130101"),
		}},
	}}

	result, err := newTestValuationService(src).Valuate(context.Background(), "新北市板橋區文化路一段")
	require.NoError(t, err)

	assert.Equal(t, []opendata.Step{opendata.StepFiltered, opendata.StepBulk}, src.steps())
	assert.Equal(t, 1, result.MatchCount)
	assert.Equal(t, int64(500000), result.EstimatedValue)
}

func TestValuate_BulkFailureIsUpstreamError(t *testing.T) {
	src := &fakeSource{results: map[opendata.Step]stepResult{
		opendata.StepFiltered: {err: errors.New("connection reset")},
		opendata.StepBulk:     {err: &opendata.UpstreamError{StatusCode: 503, Err: opendata.ErrBadStatus}},
	}}

	_, err := newTestValuationService(src).Valuate(context.Background(), "新北市板橋區文化路")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	assert.Equal(t, apperrors.ErrCodeServiceUnavailable, appErr.Code)
}

func TestValuate_MainStreetThenDistrictOnly(t *testing.T) {
	src := &fakeSource{results: map[opendata.Step]stepResult{
		opendata.StepFiltered:     {records: []models.PropertyRecord{}},
		opendata.StepMainStreet:   {err: errors.New("html page")},
		opendata.StepDistrictOnly: {records: []models.PropertyRecord{record("板橋區", "板橋區縣民大道1號", "450000", "1120101")}},
	}}

	result, err := newTestValuationService(src).Valuate(context.Background(), "新北市板橋區文化路一段１２３巷４號")
	require.NoError(t, err)

	require.Equal(t, []opendata.Step{opendata.StepFiltered, opendata.StepMainStreet, opendata.StepDistrictOnly}, src.steps())
	assert.Equal(t, "文化路一段１２３巷", src.calls[0].street)
	assert.Equal(t, "文化路", src.calls[1].street)
	assert.Equal(t, "", src.calls[2].street)
	assert.Equal(t, 1, result.MatchCount)
	assert.Equal(t, int64(450000), result.EstimatedValue)
}

func TestValuate_SkipsMainStreetWhenSameToken(t *testing.T) {
	src := &fakeSource{results: map[opendata.Step]stepResult{
		opendata.StepDistrictOnly: {records: []models.PropertyRecord{record("新莊區", "新莊區中正路1號", "300000", "1120101")}},
	}}

	_, err := newTestValuationService(src).Valuate(context.Background(), "新北市新莊區福壽街123號")
	require.NoError(t, err)
	assert.Equal(t, []opendata.Step{opendata.StepFiltered, opendata.StepDistrictOnly}, src.steps())
}

func TestValuate_NoRecords(t *testing.T) {
	src := &fakeSource{results: map[opendata.Step]stepResult{}}

	_, err := newTestValuationService(src).Valuate(context.Background(), "新北市板橋區文化路")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
	assert.Equal(t, models.SearchCriteria{District: "板橋區", Street: "文化路"}, appErr.Extra["searchCriteria"])
	assert.NotEmpty(t, appErr.Suggestion)
}

func TestValuate_DistrictOnlyAddressNeverRetries(t *testing.T) {
	src := &fakeSource{results: map[opendata.Step]stepResult{}}

	_, err := newTestValuationService(src).Valuate(context.Background(), "新北市板橋區")
	require.Error(t, err)
	assert.Equal(t, []opendata.Step{opendata.StepFiltered}, src.steps())
	assert.Equal(t, "", src.calls[0].street)
}

func TestValuate_InputErrors(t *testing.T) {
	svc := newTestValuationService(&fakeSource{})

	_, err := svc.Valuate(context.Background(), "   ")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeMissingParameter, appErr.Code)

	_, err = svc.Valuate(context.Background(), "台北101大樓")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeInvalidAddress, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
}

func TestAggregate_ZeroValidPrices(t *testing.T) {
	svc := newTestValuationService(&fakeSource{})
	result := svc.Aggregate([]models.PropertyRecord{
		record("板橋區", "a", "", "1"),
		record("板橋區", "b", "0", "2"),
		record("板橋區", "c", "n/a", "3"),
	})

	assert.Equal(t, 3, result.MatchCount)
	assert.Equal(t, int64(0), result.EstimatedValue)
	assert.Equal(t, models.PriceRange{}, result.PriceRange)
	assert.Len(t, result.RecentTransactions, 3)
}

func TestPropertyValue_MeansTotalPrices(t *testing.T) {
	svc := newTestValuationService(&fakeSource{})
	a := record("板橋區", "a", "800000", "1")
	a.TotalPrice = "12000000"
	b := record("板橋區", "b", "900000", "2")
	b.TotalPrice = "18000000"
	c := record("板橋區", "c", "1000000", "3")
	c.TotalPrice = "unknown"

	assert.Equal(t, int64(15000000), svc.PropertyValue([]models.PropertyRecord{a, b, c}))
	assert.Equal(t, int64(0), svc.PropertyValue([]models.PropertyRecord{c}))
}

func TestAggregate_RecentTransactionsOrderAndLimit(t *testing.T) {
	svc := newTestValuationService(&fakeSource{})
	dates := []string{"20230101", "20240615", "bogus", "20240301", "20220101", "20210101", "20200101"}
	records := make([]models.PropertyRecord, 0, len(dates))
	for i, d := range dates {
		records = append(records, record("板橋區", fmt.Sprintf("addr-%d", i), "100000", d))
	}

	result := svc.Aggregate(records)
	require.Len(t, result.RecentTransactions, RecentTransactionLimit)

	got := make([]string, 0, RecentTransactionLimit)
	for _, tx := range result.RecentTransactions {
		got = append(got, tx.TransactionDate)
	}
	assert.Equal(t, []string{"20240615", "20240301", "20230101", "20220101", "20210101"}, got)
}

func TestValuate_HTMLFilterRejectionAgainstHTTPUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("$filter") != "" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("<html><body>bad filter</body></html>"))
			return
		}
		assert.Equal(t, "1000", r.URL.Query().Get("size"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"district":"板橋區","rps02":"板橋區文化路一段1號","rps22_amountsunitdollars":"800000","rps07_yyymmddroc":"1130101"},
			{"district":"板橋區","rps02":"板橋區文化路一段2號","rps22_amountsunitdollars":"900000","rps07_yyymmddroc":"1130102"},
			{"district":"板橋區","rps02":"板橋區文化路一段3號","rps22_amountsunitdollars":"1000000","rps07_yyymmddroc":"1130103"},
			{"district":"三重區","rps02":"三重區文化路1號","rps22_amountsunitdollars":"1","rps07_yyymmddroc":"1130104"}
		]`))
	}))
	defer srv.Close()

	client := opendata.NewClient(srv.URL, "test-agent", 5*time.Second)
	result, err := newTestValuationService(client).Valuate(context.Background(), "新北市板橋區文化路一段")
	require.NoError(t, err)

	assert.Equal(t, 3, result.MatchCount)
	assert.Equal(t, int64(900000), result.EstimatedValue)
	assert.Equal(t, 800000.0, result.PriceRange.Min)
	assert.Equal(t, 1000000.0, result.PriceRange.Max)
}
