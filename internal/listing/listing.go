package listing

import "time"

const (
	MaxMedia = 10
	MinMedia = 2
)

type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// Media is one uploaded item. Position 0 is the main shot, 1 the rear, the rest are extras.
type Media struct {
	FileID string
	Kind   MediaKind
}

type Answers struct {
	CarTitle    string
	Engine      string
	Gearbox     string
	Mileage     string
	City        string
	Price       string
	Contacts    string
	Description string
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

type Submission struct {
	ID            int64
	SubmitterID   int64
	SubmitterName string
	Answers       Answers
	Media         []Media
	Status        Status
	Tags          []string
	ModeratorID   int64
	DenyReason    string
	CreatedAt     time.Time
	DecidedAt     time.Time
}

func (s *Submission) IsPending() bool {
	return s.Status == StatusPending
}
