package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

type logRecord struct {
	Page      string          `json:"page"`
	Timestamp *int64          `json:"ts"`
	UserID    json.RawMessage `json:"userId"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Gender    string          `json:"gender"`
	Level     string          `json:"level"`
	Song      string          `json:"song"`
	Artist    string          `json:"artist"`
	Length    float64         `json:"length"`
	SessionID int             `json:"sessionId"`
	Location  string          `json:"location"`
	UserAgent string          `json:"userAgent"`
}

// ParseLogFile decodes a newline-delimited event log and returns the
// NextSong events in file order. Blank lines are skipped. Any other event
// is dropped without validating its user id.
func ParseLogFile(content []byte) ([]pgetl.LogEvent, error) {
	var events []pgetl.LogEvent

	for i, line := range bytes.Split(content, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var rec logRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", i+1, err, pgetl.ErrInvalidData)
		}
		if rec.Page != pgetl.NextSongPage {
			continue
		}

		if rec.Timestamp == nil {
			return nil, fmt.Errorf("line %d: %w", i+1, missingField("ts"))
		}
		userID, err := parseUserID(rec.UserID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		events = append(events, pgetl.LogEvent{
			Page:      rec.Page,
			Timestamp: *rec.Timestamp,
			UserID:    userID,
			FirstName: rec.FirstName,
			LastName:  rec.LastName,
			Gender:    rec.Gender,
			Level:     rec.Level,
			Song:      rec.Song,
			Artist:    rec.Artist,
			Length:    rec.Length,
			SessionID: rec.SessionID,
			Location:  rec.Location,
			UserAgent: rec.UserAgent,
		})
	}

	return events, nil
}

// parseUserID accepts a JSON integer or a string holding one.
func parseUserID(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, missingField("userId")
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, fmt.Errorf("userId %s: %v: %w", raw, err, pgetl.ErrInvalidData)
		}
	}

	id, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("userId %s is not an integer: %w", raw, pgetl.ErrInvalidData)
	}
	return id, nil
}
