package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"petgenie/models"
)

const maxResults = 2500

// Config holds the OAuth2 client settings plus the calendar to read.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TokenPath    string // JSON-serialized oauth2.Token on disk
	CalendarID   string // defaults to "primary"
}

// Client reads entries from one Google calendar. It satisfies the schedule
// service's Source interface.
type Client struct {
	cfg        Config
	oauth      *oauth2.Config
	calendarID string
}

// NewClient builds a Google Calendar source. It does not hit the network;
// the token is loaded per fetch so a refreshed token on disk is picked up.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("google client id and secret are required")
	}
	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Client{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{calendar.CalendarReadonlyScope},
			Endpoint:     google.Endpoint,
		},
		calendarID: calendarID,
	}, nil
}

// AuthCodeURL returns the consent URL for the initial token grant.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token and persists it.
func (c *Client) Exchange(ctx context.Context, code string) error {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	if err := os.WriteFile(c.cfg.TokenPath, data, 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// ID identifies this source by its calendar id.
func (c *Client) ID() string {
	return c.calendarID
}

// Fetch lists entries between from and to, expanding recurring events into
// single instances. Transient API failures are retried a few times before
// giving up.
func (c *Client) Fetch(ctx context.Context, from, to time.Time) ([]models.CalendarEntry, error) {
	token, err := c.loadToken()
	if err != nil {
		return nil, err
	}

	httpClient := c.oauth.Client(ctx, token)
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	var events *calendar.Events
	err = retry.Do(
		func() error {
			var callErr error
			events, callErr = svc.Events.List(c.calendarID).
				SingleEvents(true).
				OrderBy("startTime").
				TimeMin(from.Format(time.RFC3339)).
				TimeMax(to.Format(time.RFC3339)).
				MaxResults(maxResults).
				Context(ctx).
				Do()
			return callErr
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	entries := make([]models.CalendarEntry, 0, len(events.Items))
	for _, item := range events.Items {
		entries = append(entries, mapEvent(c.calendarID, item))
	}
	return entries, nil
}

func (c *Client) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.cfg.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("read token (run the auth flow first): %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return &token, nil
}

func mapEvent(calendarID string, item *calendar.Event) models.CalendarEntry {
	entry := models.CalendarEntry{
		ID:                item.Id,
		CalendarID:        calendarID,
		Title:             item.Summary,
		Description:       item.Description,
		Location:          item.Location,
		Status:            mapStatus(item.Status),
		RecurringSeriesID: item.RecurringEventId,
	}

	if item.Start != nil {
		entry.Start, entry.AllDay = parseEventTime(item.Start)
	}
	if item.End != nil {
		entry.End, _ = parseEventTime(item.End)
	}
	for _, a := range item.Attendees {
		entry.Attendees = append(entry.Attendees, models.Attendee{
			DisplayName: a.DisplayName,
			Email:       a.Email,
		})
	}
	return entry
}

// parseEventTime handles both timed (DateTime) and all-day (Date) events.
func parseEventTime(t *calendar.EventDateTime) (time.Time, bool) {
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		if err == nil {
			return parsed, false
		}
		return time.Time{}, false
	}
	if t.Date != "" {
		parsed, err := time.Parse("2006-01-02", t.Date)
		if err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func mapStatus(status string) models.EntryStatus {
	switch status {
	case "tentative":
		return models.StatusTentative
	case "cancelled":
		return models.StatusCancelled
	default:
		return models.StatusConfirmed
	}
}
