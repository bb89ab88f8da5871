package config

import "askchart/models"

// DefaultChart is a chart built automatically when a dataset is loaded.
// Query runs against the dataset's cached table; {{table}} is replaced
// with the table name.
type DefaultChart struct {
	Query string
	Kind  models.ChartKind
	Title string
}

// Dataset describes one tab: the upstream query that feeds it and the
// charts shown right after loading.
type Dataset struct {
	ID            string
	UpstreamQuery string
	Charts        []DefaultChart
}

var datasets = []Dataset{
	{
		ID: "tab1",
		UpstreamQuery: `
        SELECT year, quarter, category, rating, sales
        FROM performance_data
        WHERE year >= 2022
        ORDER BY year, quarter`,
		Charts: []DefaultChart{
			{
				Query: "SELECT year, AVG(rating) AS rating FROM {{table}} GROUP BY year ORDER BY year",
				Kind:  models.ChartLine,
				Title: "연도별 평균 레이팅 추이",
			},
			{
				Query: "SELECT category, SUM(sales) AS sales FROM {{table}} GROUP BY category ORDER BY category",
				Kind:  models.ChartDoughnut,
				Title: "카테고리별 총 매출",
			},
		},
	},
	{
		ID: "tab2",
		UpstreamQuery: `
        SELECT product_id, product_name, category, price, stock
        FROM products
        WHERE status = 'active'`,
		Charts: []DefaultChart{
			{
				Query: "SELECT category, COUNT(*) AS count FROM {{table}} GROUP BY category ORDER BY category",
				Kind:  models.ChartBar,
				Title: "카테고리별 제품 수",
			},
		},
	},
	{
		ID: "tab3",
		UpstreamQuery: `
        SELECT customer_id, region, total_orders, satisfaction_score
        FROM customer_metrics
        WHERE last_order_date >= DATEADD(month, -12, GETDATE())`,
		Charts: []DefaultChart{
			{
				Query: "SELECT region, COUNT(*) AS count FROM {{table}} GROUP BY region ORDER BY region",
				Kind:  models.ChartPie,
				Title: "지역별 고객 분포",
			},
		},
	},
}

// Datasets returns the catalog in declaration order.
func Datasets() []Dataset {
	return datasets
}

// LookupDataset returns the catalog entry for id.
func LookupDataset(id string) (Dataset, bool) {
	for _, d := range datasets {
		if d.ID == id {
			return d, true
		}
	}
	return Dataset{}, false
}
