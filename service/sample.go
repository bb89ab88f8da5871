package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"

	"askchart/models"
)

// SampleSource generates fixed demo rows for the catalog datasets. It is
// used in test mode and whenever the upstream fails or returns nothing.
type SampleSource struct{}

func NewSampleSource() *SampleSource {
	return &SampleSource{}
}

func (SampleSource) FetchRows(ctx context.Context, datasetID string) (*models.QueryResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch datasetID {
	case "tab1":
		return samplePerformance(), nil
	case "tab2":
		return sampleProducts(), nil
	case "tab3":
		return sampleCustomers(), nil
	}
	return nil, fmt.Errorf("no sample data for dataset %s: %w", datasetID, models.ErrNotFound)
}

func samplePerformance() *models.QueryResult {
	result := &models.QueryResult{Columns: []string{"year", "quarter", "category", "rating", "sales"}}
	for _, year := range []int{2022, 2023, 2024} {
		for _, quarter := range []string{"Q1", "Q2", "Q3", "Q4"} {
			for _, category := range []string{"A", "B", "C"} {
				h := sampleHash(fmt.Sprintf("%d%s%s", year, quarter, category))
				result.Rows = append(result.Rows, map[string]any{
					"year":     year,
					"quarter":  quarter,
					"category": category,
					"rating":   math.Round((3.5+float64(h%15)/10)*10) / 10,
					"sales":    1000000 + int(h%1000000),
				})
			}
		}
	}
	return result
}

func sampleProducts() *models.QueryResult {
	categories := []string{"전자제품", "액세서리", "저장장치"}
	result := &models.QueryResult{Columns: []string{"product_id", "product_name", "category", "price", "stock"}}
	for i := 0; i < 10; i++ {
		result.Rows = append(result.Rows, map[string]any{
			"product_id":   fmt.Sprintf("PRD%03d", i+1),
			"product_name": fmt.Sprintf("제품 %d", i+1),
			"category":     categories[i%len(categories)],
			"price":        50000 + i*100000,
			"stock":        100 + i*50,
		})
	}
	return result
}

func sampleCustomers() *models.QueryResult {
	regions := []string{"서울", "부산", "대구", "인천", "광주", "대전"}
	result := &models.QueryResult{Columns: []string{"customer_id", "region", "total_orders", "satisfaction_score"}}
	for i := 0; i < 20; i++ {
		result.Rows = append(result.Rows, map[string]any{
			"customer_id":        fmt.Sprintf("CUST%03d", i+1),
			"region":             regions[i%len(regions)],
			"total_orders":       20 + i*3,
			"satisfaction_score": math.Round((3.5+float64(i%15)/10)*10) / 10,
		})
	}
	return result
}

// sampleHash is stable across processes so sample charts never change.
func sampleHash(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32()
}
