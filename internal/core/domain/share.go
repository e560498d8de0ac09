package domain

// VideoUpdate carries editable fields. Nil pointers and a nil Tags slice leave
// the stored value untouched.
type VideoUpdate struct {
	Title       *string
	Description *string
	Tags        []string
}

// ShareEmailRequest is what a visitor submits to share a public video
type ShareEmailRequest struct {
	Recipients string
	SenderName string
	Message    string
}

// ShareEmail is a validated message ready for delivery
type ShareEmail struct {
	To         []string
	SenderName string
	Message    string
	VideoTitle string
	ShareURL   string
}
