package controllers

import (
	"fmt"
	"lecturebot/internal/catalog"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

// HealthController reports liveness plus catalog readiness. Until the
// catalog has been loaded once the endpoint answers 503 "loading".
type HealthController struct {
	store     catalog.StoreInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Revision      uint64  `json:"revision"`
	Subjects      int     `json:"subjects"`
	Entries       int     `json:"entries"`
}

func NewHealthController(store catalog.StoreInterface) *HealthController {
	return &HealthController{
		store:     store,
		startTime: time.Now(),
	}
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Revision:      hc.store.Revision(),
	}
	code := http.StatusOK
	if resp.Revision == 0 {
		resp.Status, code = "loading", http.StatusServiceUnavailable
	} else {
		resp.Subjects = hc.store.SubjectCount()
		resp.Entries = hc.store.EntryCount()
	}

	body, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// formatDuration renders d as "<h>h<m>m<s>s" with unbounded hours.
func formatDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	return fmt.Sprintf("%dh%dm%ds", h, m, d/time.Second)
}
