package meetup

import "time"

// Group is a Meetup group as returned by the find/groups and group detail
// endpoints. Description is raw HTML.
type Group struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	URLName     string `json:"urlname"`
	Description string `json:"description"`
	Link        string `json:"link"`
	City        string `json:"city"`
	Members     int    `json:"members"`
	Photo       *Photo `json:"group_photo,omitempty"`
}

// Photo carries the image links attached to a group.
type Photo struct {
	HighresLink string `json:"highres_link"`
	PhotoLink   string `json:"photo_link"`
	ThumbLink   string `json:"thumb_link"`
}

// Event is an upcoming event of a group. Time is milliseconds since the epoch,
// as the Meetup API serves it.
type Event struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Time  int64      `json:"time"`
	Link  string     `json:"link"`
	Group EventGroup `json:"group"`
	Venue *Venue     `json:"venue,omitempty"`
}

// EventGroup is the group summary embedded in an event.
type EventGroup struct {
	Name    string `json:"name"`
	URLName string `json:"urlname"`
}

// Venue is the optional location of an event.
type Venue struct {
	Name    string `json:"name"`
	Address string `json:"address_1"`
	City    string `json:"city"`
}

// StartsAt converts the epoch-millisecond event time to a time.Time.
func (e Event) StartsAt() time.Time {
	return time.UnixMilli(e.Time)
}
