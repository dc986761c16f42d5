// internal/app/features/calendarevent/handler.go
package calendarevent

// Creates Google Calendar events with Google Meet links on behalf of the
// caller. The caller supplies an OAuth access token it obtained in the
// browser; the server's OAuth client wraps it so the request is made as the
// caller against their primary calendar.

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/formutil"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// EventDuration is the length of every created event.
const EventDuration = time.Hour

// Config holds the server OAuth client and calendar settings.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TimeZone     string // IANA name sent with start and end

	// Endpoint overrides the Calendar API base URL. Empty uses Google.
	Endpoint string
}

type Handler struct {
	Log *zap.Logger

	oauth    *oauth2.Config
	timeZone string
	endpoint string
}

func NewHandler(cfg Config, logger *zap.Logger) *Handler {
	h := &Handler{
		Log:      logger,
		timeZone: cfg.TimeZone,
		endpoint: cfg.Endpoint,
	}
	if h.timeZone == "" {
		h.timeZone = "UTC"
	}
	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		h.oauth = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{calendar.CalendarEventsScope},
		}
	}
	return h
}

// Configured reports whether the server OAuth client is set.
func (h *Handler) Configured() bool { return h.oauth != nil }

type eventInput struct {
	Title        string   `json:"title" validate:"required,max=300"`
	ClassID      string   `json:"classId"`
	Time         string   `json:"time" validate:"required"`
	AccessToken  string   `json:"access_token" validate:"required"`
	Participants []string `json:"participants"`
	Description  string   `json:"description" validate:"max=8000"`
}

type eventDetails struct {
	Title        string   `json:"title"`
	StartTime    string   `json:"startTime"`
	EndTime      string   `json:"endTime"`
	TimeZone     string   `json:"timeZone"`
	ClassID      string   `json:"classId,omitempty"`
	Participants []string `json:"participants"`
}

type eventResult struct {
	Success      bool         `json:"success"`
	EventID      string       `json:"eventId"`
	HTMLLink     string       `json:"htmlLink"`
	MeetLink     string       `json:"meetLink"`
	EventDetails eventDetails `json:"eventDetails"`
}

// eventFailure is the body of every non-2xx bridge response.
type eventFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func fail(w http.ResponseWriter, status int, msg string, details any) {
	respond.JSON(w, status, eventFailure{Error: msg, Details: details})
}

// HandleCreate handles POST /api/create-calendar-event.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in eventInput
	if err := formutil.Decode(r, &in); err != nil {
		h.Log.Warn("calendar event: decode body", zap.String("path", r.URL.Path), zap.Error(err))
		fail(w, http.StatusBadRequest, "Invalid request body.", nil)
		return
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Time = strings.TrimSpace(in.Time)
	in.AccessToken = strings.TrimSpace(in.AccessToken)

	if res := inputval.Validate(in); res.HasErrors() {
		if missing := res.Missing(); len(missing) > 0 {
			fail(w, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "), nil)
			return
		}
		fail(w, http.StatusBadRequest, res.First(), res.Errors)
		return
	}
	start, err := time.Parse(time.RFC3339, in.Time)
	if err != nil {
		fail(w, http.StatusBadRequest, "time must be an RFC 3339 timestamp.", nil)
		return
	}
	if h.oauth == nil {
		h.Log.Error("calendar event: oauth client not configured", zap.String("path", r.URL.Path))
		fail(w, http.StatusInternalServerError, "Google OAuth client is not configured on the server.", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	created, err := h.insert(ctx, in, start)
	if err != nil {
		h.writeUpstreamError(w, r, err)
		return
	}

	participants := cleanParticipants(in.Participants)
	h.Log.Info("calendar event created",
		zap.String("event_id", created.Id),
		zap.String("class_id", in.ClassID),
		zap.Int("attendees", len(participants)))

	respond.JSON(w, http.StatusOK, eventResult{
		Success:  true,
		EventID:  created.Id,
		HTMLLink: created.HtmlLink,
		MeetLink: meetLink(created),
		EventDetails: eventDetails{
			Title:        in.Title,
			StartTime:    start.Format(time.RFC3339),
			EndTime:      start.Add(EventDuration).Format(time.RFC3339),
			TimeZone:     h.timeZone,
			ClassID:      in.ClassID,
			Participants: participants,
		},
	})
}

func (h *Handler) insert(ctx context.Context, in eventInput, start time.Time) (*calendar.Event, error) {
	client := h.oauth.Client(ctx, &oauth2.Token{AccessToken: in.AccessToken, TokenType: "Bearer"})
	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if h.endpoint != "" {
		opts = append(opts, option.WithEndpoint(h.endpoint))
	}
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	event := &calendar.Event{
		Summary:     in.Title,
		Description: in.Description,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: h.timeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: start.Add(EventDuration).Format(time.RFC3339),
			TimeZone: h.timeZone,
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		},
	}
	for _, email := range cleanParticipants(in.Participants) {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}

	return svc.Events.Insert("primary", event).ConferenceDataVersion(1).Context(ctx).Do()
}

// writeUpstreamError passes through the Calendar API statuses the client
// can act on. Everything else is a 500.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized:
			h.Log.Info("calendar event: token rejected", zap.Error(err))
			fail(w, http.StatusUnauthorized, "Invalid or expired access token. Please sign in with Google again.", nil)
			return
		case http.StatusForbidden:
			h.Log.Info("calendar event: permission denied", zap.Error(err))
			fail(w, http.StatusForbidden, "Insufficient permissions to create calendar events.", nil)
			return
		case http.StatusNotFound:
			h.Log.Info("calendar event: calendar not found", zap.Error(err))
			fail(w, http.StatusNotFound, "Calendar not found.", nil)
			return
		}
	}
	h.Log.Error("calendar event: insert failed", zap.String("path", r.URL.Path), zap.Error(err))
	fail(w, http.StatusInternalServerError, "Failed to create calendar event", err.Error())
}

func meetLink(e *calendar.Event) string {
	if e.HangoutLink != "" {
		return e.HangoutLink
	}
	if e.ConferenceData != nil {
		for _, ep := range e.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				return ep.Uri
			}
		}
	}
	return ""
}

func cleanParticipants(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if p = strings.TrimSpace(p); p != "" && inputval.IsValidEmail(p) {
			out = append(out, p)
		}
	}
	return out
}
