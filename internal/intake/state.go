package intake

type State string

const (
	StateIdle        State = ""
	StateCarTitle    State = "car_title"
	StateEngine      State = "engine"
	StateGearbox     State = "gearbox"
	StateMileage     State = "mileage"
	StateCity        State = "city"
	StatePrice       State = "price"
	StateContacts    State = "contacts"
	StateDescription State = "description"
	StatePhotoMain   State = "photo_main"
	StatePhotoBack   State = "photo_back"
	StatePhotosExtra State = "photos_extra"
	StateReview      State = "review"
)

// States lists every state of an active intake in order.
var States = []State{
	StateCarTitle, StateEngine, StateGearbox, StateMileage, StateCity, StatePrice,
	StateContacts, StateDescription, StatePhotoMain, StatePhotoBack, StatePhotosExtra, StateReview,
}

type InputKind int

const (
	InputOther InputKind = iota
	InputText
	InputPhoto
	InputVideo
	InputDone
)

// Input is one submitter action. FileID is set for photo and video input.
type Input struct {
	Kind   InputKind
	Text   string
	FileID string
}

// Event tells the transport what to say after an input was handled.
type Event int

const (
	// EventPrompt: the input was accepted; ask for whatever the new state needs.
	EventPrompt Event = iota
	// EventReprompt: the input did not fit the current state; ask again.
	EventReprompt
	EventDescriptionTooLong
	EventMediaAdded
	EventMediaLimit
	EventTooFewMedia
	EventReview
)

// Outcome is the result of handling one input. State is the state after handling.
type Outcome struct {
	Event      Event
	State      State
	Length     int
	Max        int
	MediaCount int
}
