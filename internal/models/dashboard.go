package models

// DashboardStats is the headline snapshot shown after login.
type DashboardStats struct {
	TodayOrders    int     `json:"today_orders"`
	TodayRevenue   float64 `json:"today_revenue"`
	OccupiedTables int     `json:"occupied_tables"`
	LowStockItems  int     `json:"low_stock_items"`
}
