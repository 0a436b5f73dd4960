package remote

import (
	"fmt"
	"time"

	"github.com/roomboard/roomboard-core/internal/booking"
)

// zonedTimeDTO is the wire shape both remote APIs use for timestamps: a
// local or offset-carrying dateTime plus a declared IANA zone label.
type zonedTimeDTO struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// zonedTimeLayouts are tried in order when the raw dateTime carries no
// offset. The remote systems omit the UTC marker when the declared zone
// is UTC, so local layouts are interpreted in the declared zone.
var zonedTimeLayouts = []string{
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
}

// parseZonedTime normalizes a wire timestamp to an absolute instant while
// preserving the declared zone label for day-bucket semantics.
func parseZonedTime(dto zonedTimeDTO) (booking.ZonedTime, error) {
	if t, err := time.Parse(time.RFC3339, dto.DateTime); err == nil {
		return booking.ZonedTime{Time: t, Zone: zoneLabel(dto.TimeZone)}, nil
	}

	loc, err := time.LoadLocation(zoneLabel(dto.TimeZone))
	if err != nil {
		loc = time.UTC
	}
	for _, layout := range zonedTimeLayouts {
		if t, err := time.ParseInLocation(layout, dto.DateTime, loc); err == nil {
			return booking.ZonedTime{Time: t, Zone: zoneLabel(dto.TimeZone)}, nil
		}
	}
	return booking.ZonedTime{}, fmt.Errorf("unparseable timestamp %q", dto.DateTime)
}

func zoneLabel(label string) string {
	if label == "" {
		return "UTC"
	}
	return label
}

// calendarEventDTO is the calendar API's event shape.
type calendarEventDTO struct {
	ID          string       `json:"id"`
	Subject     string       `json:"subject"`
	Start       zonedTimeDTO `json:"start"`
	End         zonedTimeDTO `json:"end"`
	BodyPreview string       `json:"bodyPreview"`
	Location    struct {
		DisplayName string `json:"displayName"`
	} `json:"location"`
}

// calendarPageDTO is one page of the calendar events response.
type calendarPageDTO struct {
	Events   []calendarEventDTO `json:"value"`
	NextLink string             `json:"@odata.nextLink"`
}

// bookingRecordDTO is the booking API's appointment shape.
type bookingRecordDTO struct {
	ID            string       `json:"id"`
	ServiceID     string       `json:"serviceId"`
	ServiceName   string       `json:"serviceName"`
	CustomerName  string       `json:"customerName"`
	CustomerEmail string       `json:"customerEmailAddress"`
	CustomerPhone string       `json:"customerPhone"`
	CustomerNotes string       `json:"customerNotes"`
	ServiceNotes  string       `json:"serviceNotes"`
	Start         zonedTimeDTO `json:"startDateTime"`
	End           zonedTimeDTO `json:"endDateTime"`
	Location      struct {
		DisplayName string `json:"displayName"`
		Address     string `json:"address"`
		URI         string `json:"locationUri"`
	} `json:"serviceLocation"`
	Answers []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	} `json:"customQuestionAnswers"`
}

// bookingPageDTO is one page of the booking records response.
type bookingPageDTO struct {
	Bookings []bookingRecordDTO `json:"value"`
	NextLink string             `json:"@odata.nextLink"`
}

// toRecord converts a wire booking into the domain record.
func (dto *bookingRecordDTO) toRecord() (*booking.Record, error) {
	start, err := parseZonedTime(dto.Start)
	if err != nil {
		return nil, fmt.Errorf("booking %s start: %w", dto.ID, err)
	}
	end, err := parseZonedTime(dto.End)
	if err != nil {
		return nil, fmt.Errorf("booking %s end: %w", dto.ID, err)
	}

	rec := &booking.Record{
		ID:            dto.ID,
		ServiceID:     dto.ServiceID,
		ServiceName:   dto.ServiceName,
		CustomerName:  dto.CustomerName,
		CustomerEmail: dto.CustomerEmail,
		CustomerPhone: dto.CustomerPhone,
		CustomerNotes: dto.CustomerNotes,
		ServiceNotes:  dto.ServiceNotes,
		Start:         start,
		End:           end,
		Location: booking.LocationReference{
			DisplayName: dto.Location.DisplayName,
			AddressHint: dto.Location.Address,
			URIHint:     dto.Location.URI,
		},
	}
	for _, a := range dto.Answers {
		rec.Answers = append(rec.Answers, booking.QuestionAnswer{
			Question: a.Question,
			Answer:   a.Answer,
		})
	}
	return rec, nil
}
