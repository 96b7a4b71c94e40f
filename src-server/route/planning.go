package route

import (
	"encoding/json"
	"eslteam/src-server/utils"
	"log/slog"
	"net/http"
	"strconv"
)

const (
	minPlanningYear = 2000
	maxPlanningYear = 2100
)

func Planning(muxer *http.ServeMux, as *utils.AppState) {
	// days of a month holding at least one session or event
	muxer.HandleFunc("GET /planning/{year}/{month}", func(w http.ResponseWriter, r *http.Request) {
		year, err := strconv.Atoi(r.PathValue("year"))
		if err != nil || year < minPlanningYear || year > maxPlanningYear {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid year"))
			return
		}
		month, err := strconv.Atoi(r.PathValue("month"))
		if err != nil || month < 1 || month > 12 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid month"))
			return
		}

		result := as.Planning.GetPlanningData(r.Context(), year, month)
		respBodyJson, err := json.Marshal(result)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			slog.Error("can't marshal planning", "where", "route/planning.go", "error", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch result.Success {
		case true:
			w.WriteHeader(http.StatusOK)
		case false:
			as.MetricChans.ObservePlanningFailure()
			w.WriteHeader(http.StatusInternalServerError)
		}
		w.Write(respBodyJson)
	})
}
