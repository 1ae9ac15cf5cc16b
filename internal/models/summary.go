package models

// SummaryStats holds the aggregate counters of the inventory summary
type SummaryStats struct {
	TotalProducts  int    `json:"total_products"`
	LowStock       int    `json:"low_stock"`
	Expired        int    `json:"expired"`
	InventoryValue string `json:"inventory_value"`
}

// SummaryDetails lists the products behind each counter. Each field holds
// either a []Product or a placeholder message string when the list is empty.
type SummaryDetails struct {
	ExpiredMedicines interface{} `json:"expired_medicines"`
	LowStockItems    interface{} `json:"low_stock_items"`
	SoonToExpire     interface{} `json:"soon_to_expire"`
}

// InventorySummary is the full summary report
type InventorySummary struct {
	Summary SummaryStats   `json:"summary"`
	Details SummaryDetails `json:"details"`
}
