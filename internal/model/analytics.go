package model

// WindowStats aggregates message activity inside one time window.
type WindowStats struct {
	Messages int `json:"messages"`
	Clients  int `json:"clients"`
	Inbound  int `json:"inbound"`
	Outbound int `json:"outbound"`
}

// Analytics is a point-in-time usage snapshot for one business, derived from
// the business message log on every query.
type Analytics struct {
	TotalMessages int         `json:"total_messages"`
	TotalClients  int         `json:"total_clients"`
	TodayStats    WindowStats `json:"today_stats"`
	WeekStats     WindowStats `json:"week_stats"`
	MonthStats    WindowStats `json:"month_stats"`
}
