package route

import (
	"encoding/json"
	"eslteam/src-server/utils"
	"net/http"
	"time"
)

func Ping(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "ok",
			"uptime": as.GetUptime().Round(time.Second).String(),
		})
	})
}
