package route

import (
	"encoding/json"
	"errors"
	"eslteam/src-server/model"
	"eslteam/src-server/planning"
	"eslteam/src-server/utils"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type OneSessionRespBody struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	VMA           float64 `json:"vma"`
	TotalDistance float64 `json:"totalDistance"`
	TotalTime     float64 `json:"totalTime"`
	Date          *string `json:"date"`
	StartDate     *int64  `json:"sessionDateUnixUTC"`
}

// Date and StartDate stay null for a session that is not planned yet.
func newOneSessionRespBody(s model.TrainingSession, loc *time.Location) OneSessionRespBody {
	respBody := OneSessionRespBody{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		VMA:           s.VMA,
		TotalDistance: s.TotalDistance,
		TotalTime:     s.TotalTime,
		StartDate:     s.SessionDateUnixUTC,
	}
	if s.SessionDateUnixUTC != nil {
		date := planning.DayString(time.Unix(*s.SessionDateUnixUTC, 0).In(loc))
		respBody.Date = &date
	}
	return respBody
}

func Sessions(muxer *http.ServeMux, as *utils.AppState) {
	type CreateSessionReqBody struct {
		Name               string  `json:"name"`
		Description        string  `json:"description"`
		VMA                float64 `json:"vma"`
		TotalDistance      float64 `json:"totalDistance"`
		TotalTime          float64 `json:"totalTime"`
		SessionDateUnixUTC *int64  `json:"sessionDateUnixUTC"` // null: not planned yet
	}

	// create a session, dated or not, the success response is the created session
	muxer.HandleFunc("POST /sessions", func(w http.ResponseWriter, r *http.Request) {
		var reqBody CreateSessionReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}
		reqBody.Name = utils.CleanupString(reqBody.Name)
		if reqBody.Name == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide a name"))
			return
		}

		newSession := model.TrainingSession{
			ID:                 uuid.NewString(),
			Name:               reqBody.Name,
			Description:        reqBody.Description,
			VMA:                reqBody.VMA,
			TotalDistance:      reqBody.TotalDistance,
			TotalTime:          reqBody.TotalTime,
			SessionDateUnixUTC: reqBody.SessionDateUnixUTC,
		}
		if err := newSession.Insert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't create session"))
			slog.Error("can't create session", "where", "route/sessions.go", "error", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(newOneSessionRespBody(newSession, as.Config.GetLocation()))
	})

	muxer.HandleFunc("GET /sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		sessionModel, ok := getSession(w, r, as)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(newOneSessionRespBody(*sessionModel, as.Config.GetLocation()))
	})

	muxer.HandleFunc("DELETE /sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := model.DeleteTrainingSession(r.Context(), as.BunDB, r.PathValue("id")); err != nil {
			if errors.Is(err, model.ErrTrainingSessionNotFound) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("Session not found"))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't delete session"))
			slog.Error("can't delete session", "where", "route/sessions.go", "error", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	// dated sessions of one day, ?date= takes YYYY-MM-DD or "tomorrow"
	muxer.HandleFunc("GET /sessions", func(w http.ResponseWriter, r *http.Request) {
		day, err := as.ParseDay(r.URL.Query().Get("date"), time.Now())
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid date"))
			return
		}
		from, to := planning.DayWindow(day)

		startTimer := time.Now()
		sessionModels, err := model.ListSessionsInRange(r.Context(), as.BunDB, from, to)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get sessions"))
			slog.Error("can't get sessions", "where", "route/sessions.go", "error", err)
			return
		}
		as.MetricChans.ObserveDatabaseRead(float64(time.Since(startTimer).Microseconds()))

		respBody := make([]OneSessionRespBody, 0, len(sessionModels))
		for _, sessionModel := range sessionModels {
			respBody = append(respBody, newOneSessionRespBody(sessionModel, as.Config.GetLocation()))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(respBody)
	})

	// download one dated session as an .ics file
	muxer.HandleFunc("GET /sessions/{id}/ics", func(w http.ResponseWriter, r *http.Request) {
		sessionModel, ok := getSession(w, r, as)
		if !ok {
			return
		}

		calendarEvent, ok := sessionModel.ToCalendarEvent(as.Config.GetLocation())
		if !ok {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte("Session has no date yet"))
			return
		}
		writeIcsFile(w, as, calendarEvent)
	})
}

// Load the session named by the {id} path value, writing the error response
// itself when it can't.
func getSession(w http.ResponseWriter, r *http.Request, as *utils.AppState) (*model.TrainingSession, bool) {
	startTimer := time.Now()
	sessionModel, err := model.GetTrainingSession(r.Context(), as.BunDB, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, model.ErrTrainingSessionNotFound) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Session not found"))
			return nil, false
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Can't get session"))
		slog.Error("can't get session", "where", "route/sessions.go", "error", err)
		return nil, false
	}
	as.MetricChans.ObserveDatabaseRead(float64(time.Since(startTimer).Microseconds()))
	return sessionModel, true
}
