package intake

import (
	"time"
	"unicode/utf8"

	"bazar-bot/internal/listing"
)

// Session is one submitter's draft. It is owned by Sessions and must only be
// touched inside Sessions.With.
type Session struct {
	UserID    int64
	State     State
	Answers   listing.Answers
	Media     []listing.Media
	UpdatedAt time.Time
}

func (s *Session) Active() bool {
	return s.State != StateIdle
}

func (s *Session) reset() {
	s.State = StateIdle
	s.Answers = listing.Answers{}
	s.Media = nil
}

// action applies an accepted input to the session. It returns the event to
// report and whether the transition's next state should be taken.
type action func(m *Machine, s *Session, in Input) (Outcome, bool)

type transitionKey struct {
	state State
	input InputKind
}

type transition struct {
	do   action
	next State
}

func textAnswer(field func(*listing.Answers) *string) action {
	return func(_ *Machine, s *Session, in Input) (Outcome, bool) {
		if in.Text == "" {
			return Outcome{Event: EventReprompt}, false
		}
		*field(&s.Answers) = in.Text
		return Outcome{Event: EventPrompt}, true
	}
}

func storeDescription(m *Machine, s *Session, in Input) (Outcome, bool) {
	if in.Text == "" {
		return Outcome{Event: EventReprompt}, false
	}
	if n := utf8.RuneCountInString(in.Text); n > m.maxDescription {
		return Outcome{Event: EventDescriptionTooLong, Length: n, Max: m.maxDescription}, false
	}
	s.Answers.Description = in.Text
	s.Media = nil
	return Outcome{Event: EventPrompt}, true
}

func storeMedia(position int) action {
	return func(_ *Machine, s *Session, in Input) (Outcome, bool) {
		s.Media = append(s.Media[:position], listing.Media{FileID: in.FileID, Kind: mediaKind(in.Kind)})
		return Outcome{Event: EventPrompt}, true
	}
}

func appendMedia(_ *Machine, s *Session, in Input) (Outcome, bool) {
	if len(s.Media) >= listing.MaxMedia {
		return Outcome{Event: EventMediaLimit, Max: listing.MaxMedia}, false
	}
	s.Media = append(s.Media, listing.Media{FileID: in.FileID, Kind: mediaKind(in.Kind)})
	return Outcome{Event: EventMediaAdded}, true
}

func finishMedia(_ *Machine, s *Session, _ Input) (Outcome, bool) {
	if len(s.Media) < listing.MinMedia {
		return Outcome{Event: EventTooFewMedia}, false
	}
	return Outcome{Event: EventReview}, true
}

func mediaKind(k InputKind) listing.MediaKind {
	if k == InputVideo {
		return listing.MediaVideo
	}
	return listing.MediaPhoto
}

var transitions = map[transitionKey]transition{
	{StateCarTitle, InputText}:    {textAnswer(func(a *listing.Answers) *string { return &a.CarTitle }), StateEngine},
	{StateEngine, InputText}:      {textAnswer(func(a *listing.Answers) *string { return &a.Engine }), StateGearbox},
	{StateGearbox, InputText}:     {textAnswer(func(a *listing.Answers) *string { return &a.Gearbox }), StateMileage},
	{StateMileage, InputText}:     {textAnswer(func(a *listing.Answers) *string { return &a.Mileage }), StateCity},
	{StateCity, InputText}:        {textAnswer(func(a *listing.Answers) *string { return &a.City }), StatePrice},
	{StatePrice, InputText}:       {textAnswer(func(a *listing.Answers) *string { return &a.Price }), StateContacts},
	{StateContacts, InputText}:    {textAnswer(func(a *listing.Answers) *string { return &a.Contacts }), StateDescription},
	{StateDescription, InputText}: {storeDescription, StatePhotoMain},

	{StatePhotoMain, InputPhoto}: {storeMedia(0), StatePhotoBack},
	{StatePhotoMain, InputVideo}: {storeMedia(0), StatePhotoBack},
	{StatePhotoBack, InputPhoto}: {storeMedia(1), StatePhotosExtra},
	{StatePhotoBack, InputVideo}: {storeMedia(1), StatePhotosExtra},

	{StatePhotosExtra, InputPhoto}: {appendMedia, StatePhotosExtra},
	{StatePhotosExtra, InputVideo}: {appendMedia, StatePhotosExtra},
	{StatePhotosExtra, InputDone}:  {finishMedia, StateReview},
}

type Machine struct {
	maxDescription int
	now            func() time.Time
}

func NewMachine(maxDescription int) *Machine {
	return &Machine{maxDescription: maxDescription, now: time.Now}
}

func (m *Machine) MaxDescription() int {
	return m.maxDescription
}

// Start begins a fresh draft, discarding anything in progress.
func (m *Machine) Start(s *Session) Outcome {
	s.reset()
	s.State = StateCarTitle
	s.UpdatedAt = m.now()
	return Outcome{Event: EventPrompt, State: s.State}
}

// Cancel discards the draft from any state.
func (m *Machine) Cancel(s *Session) {
	s.reset()
	s.UpdatedAt = m.now()
}

func (m *Machine) Restart(s *Session) Outcome {
	m.Cancel(s)
	return m.Start(s)
}

// Handle feeds one input to the session. Inputs with no transition from the
// current state leave the session untouched and ask again.
func (m *Machine) Handle(s *Session, in Input) Outcome {
	s.UpdatedAt = m.now()
	t, ok := transitions[transitionKey{s.State, in.Kind}]
	if !ok {
		return Outcome{Event: EventReprompt, State: s.State, MediaCount: len(s.Media)}
	}
	out, advance := t.do(m, s, in)
	if advance {
		s.State = t.next
	}
	out.State = s.State
	out.MediaCount = len(s.Media)
	return out
}

// Accepts reports whether the state has a transition for the input kind.
func Accepts(state State, kind InputKind) bool {
	_, ok := transitions[transitionKey{state, kind}]
	return ok
}
