package dashboard

import "time"

// Stats 는 대시보드 응답이다.
type Stats struct {
	SystemStatus  string       `json:"system_status"`
	ActiveNodes   int          `json:"active_nodes"`
	Defcon        int          `json:"defcon"`
	ActiveThreats int          `json:"active_threats"`
	TrendData     []TrendPoint `json:"trend_data"`
	Alerts        []Alert      `json:"alerts"`
	Logs          []LogLine    `json:"logs"`
	GeoRisks      []GeoRisk    `json:"geo_risks"`
}

// TrendPoint 는 5분 구간의 위험 메시지 수다.
type TrendPoint struct {
	Time  string `json:"time"`
	Value int    `json:"value"`
}

// Alert 는 최근 OPSEC HIGH 경보다.
type Alert struct {
	ID      uint      `json:"id"`
	Title   string    `json:"title"`
	Risk    string    `json:"risk"`
	Time    time.Time `json:"time"`
	Details string    `json:"details"`
}

// LogLine 은 활동 로그 한 줄이다.
type LogLine struct {
	Time    string `json:"time"`
	Type    string `json:"type"`
	Message string `json:"message"`

	at time.Time
}

// GeoRisk 는 지도에 표시할 위험 지점이다.
type GeoRisk struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Risk string  `json:"risk"`
}
