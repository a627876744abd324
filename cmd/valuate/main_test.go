package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onchain-re-lending/internal/models"
)

func upstream(t *testing.T, records []models.PropertyRecord) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(records)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd(&out)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestValuateJSON(t *testing.T) {
	srv := upstream(t, []models.PropertyRecord{
		{District: "板橋區", Address: "板橋區文化路一段1號", UnitPrice: "300000", TotalPrice: "12000000", TransactionDate: "1130101"},
		{District: "板橋區", Address: "板橋區文化路一段9號", UnitPrice: "500000", TotalPrice: "16000000", TransactionDate: "1130301"},
	})

	out, err := execute(t, "--base-url", srv.URL, "--json", "--loan", "新北市板橋區文化路一段")
	require.NoError(t, err)

	var body struct {
		Success       bool                   `json:"success"`
		Data          models.ValuationResult `json:"data"`
		PropertyValue int64                  `json:"propertyValue"`
		Loan          *models.Loan           `json:"loan"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(400000), body.Data.EstimatedValue)
	require.NotNil(t, body.Loan)
	assert.Equal(t, int64(14000000), body.PropertyValue)
	assert.Equal(t, int64(7000000), body.Loan.Amount)
	assert.Equal(t, int64(14000000), body.Loan.Valuation)
	assert.Equal(t, 180, body.Loan.TermDays)
}

func TestValuateText(t *testing.T) {
	srv := upstream(t, []models.PropertyRecord{
		{District: "板橋區", Address: "板橋區文化路一段1號", UnitPrice: "300000", TotalPrice: "9000000", TransactionDate: "1130101"},
	})

	out, err := execute(t, "--base-url", srv.URL, "新北市板橋區文化路一段")
	require.NoError(t, err)
	assert.Contains(t, out, "Matched records:  1")
	assert.Contains(t, out, "Unit price (avg): 300000")
	assert.Contains(t, out, "Property value:   9000000")
}

func TestValuateNoRecords(t *testing.T) {
	srv := upstream(t, nil)

	out, err := execute(t, "--base-url", srv.URL, "--json", "新北市板橋區文化路")
	require.Error(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "NO_MATCHING_RECORDS", body["code"])
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}
