package route

import (
	"database/sql"
	"encoding/json"
	"errors"
	"eslteam/src-server/ical"
	"eslteam/src-server/model"
	"eslteam/src-server/planning"
	"eslteam/src-server/utils"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type OneEventRespBody struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	StartDate   int64  `json:"startDateUnixUTC"`
	EndDate     int64  `json:"endDateUnixUTC,omitempty"`
	IsWholeDay  bool   `json:"isWholeDay"`
}

func newOneEventRespBody(e model.Event, loc *time.Location) OneEventRespBody {
	return OneEventRespBody{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Type:        e.Type,
		Location:    e.Location,
		Date:        planning.DayString(time.Unix(e.EventDateUnixUTC, 0).In(loc)),
		StartDate:   e.EventDateUnixUTC,
		EndDate:     e.EndDateUnixUTC,
		IsWholeDay:  e.IsWholeDay,
	}
}

func Events(muxer *http.ServeMux, as *utils.AppState) {
	type CreateEventReqBody struct {
		Title            string `json:"title"`
		Description      string `json:"description"`
		Type             string `json:"type"`
		Location         string `json:"location"`
		StartDateUnixUTC int64  `json:"startDateUnixUTC"`
		EndDateUnixUTC   int64  `json:"endDateUnixUTC"`
		IsWholeDay       bool   `json:"isWholeDay"`
	}

	// create a new event, the success response is the created event
	muxer.HandleFunc("POST /events", func(w http.ResponseWriter, r *http.Request) {
		var reqBody CreateEventReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}
		reqBody.Title = utils.CleanupString(reqBody.Title)
		if reqBody.Title == "" || reqBody.StartDateUnixUTC == 0 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide a title and a start date"))
			return
		}
		if reqBody.EndDateUnixUTC != 0 && reqBody.EndDateUnixUTC < reqBody.StartDateUnixUTC {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Start date must be before end date"))
			return
		}

		newEvent := model.Event{
			ID:               uuid.NewString(),
			Title:            reqBody.Title,
			Description:      reqBody.Description,
			Type:             reqBody.Type,
			Location:         reqBody.Location,
			EventDateUnixUTC: reqBody.StartDateUnixUTC,
			EndDateUnixUTC:   reqBody.EndDateUnixUTC,
			IsWholeDay:       reqBody.IsWholeDay,
		}
		if err := newEvent.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't create event"))
			slog.Error("can't create event", "where", "route/events.go", "error", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(newOneEventRespBody(newEvent, as.Config.GetLocation()))
	})

	// events of one day, ?date= takes YYYY-MM-DD or "next saturday"
	muxer.HandleFunc("GET /events", func(w http.ResponseWriter, r *http.Request) {
		day, err := as.ParseDay(r.URL.Query().Get("date"), time.Now())
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid date"))
			return
		}
		from, to := planning.DayWindow(day)

		startTimer := time.Now()
		eventModels, err := model.ListEventsInRange(r.Context(), as.BunDB, from, to)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get events"))
			slog.Error("can't get events", "where", "route/events.go", "error", err)
			return
		}
		as.MetricChans.ObserveDatabaseRead(float64(time.Since(startTimer).Microseconds()))

		respBody := make([]OneEventRespBody, 0, len(eventModels))
		for _, eventModel := range eventModels {
			respBody = append(respBody, newOneEventRespBody(eventModel, as.Config.GetLocation()))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(respBody)
	})

	// download one event as an .ics file
	muxer.HandleFunc("GET /events/{id}/ics", func(w http.ResponseWriter, r *http.Request) {
		eventModel, ok := getEvent(w, r, as)
		if !ok {
			return
		}
		writeIcsFile(w, as, eventModel.ToCalendarEvent(as.Config.GetLocation()))
	})

	// redirect to the "add event" page of a web calendar
	muxer.HandleFunc("GET /events/{id}/calendar-link", func(w http.ResponseWriter, r *http.Request) {
		provider, err := ical.ParseProvider(r.URL.Query().Get("provider"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(err.Error()))
			return
		}
		eventModel, ok := getEvent(w, r, as)
		if !ok {
			return
		}
		link, err := ical.GenerateLink(provider, eventModel.ToCalendarEvent(as.Config.GetLocation()))
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(err.Error()))
			return
		}
		as.MetricChans.ObserveIcsExport("link")
		http.Redirect(w, r, link, http.StatusFound)
	})
}

// Load the event named by the {id} path value, writing the error response
// itself when it can't.
func getEvent(w http.ResponseWriter, r *http.Request, as *utils.AppState) (*model.Event, bool) {
	eventModel := new(model.Event)
	startTimer := time.Now()
	if err := as.BunDB.NewSelect().
		Model(eventModel).
		Where("id = ?", r.PathValue("id")).
		Scan(r.Context()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Event not found"))
			return nil, false
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Can't get event"))
		slog.Error("can't get event", "where", "route/events.go", "error", err)
		return nil, false
	}
	as.MetricChans.ObserveDatabaseRead(float64(time.Since(startTimer).Microseconds()))
	return eventModel, true
}

func writeIcsFile(w http.ResponseWriter, as *utils.AppState, calendarEvent ical.CalendarEvent) {
	content, filename, err := as.Ical.GenerateFile(calendarEvent)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(err.Error()))
		return
	}
	as.MetricChans.ObserveIcsExport("file")

	w.Header().Set("Content-Type", ical.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		slog.Warn("can't write to response", "where", "route/events.go", "error", err)
	}
}
