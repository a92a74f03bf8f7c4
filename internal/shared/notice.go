package shared

// Notice kinds.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// Notice is a one-time message shown to the console user, one per toast.
type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Success builds a success notice.
func Success(message string) Notice {
	return Notice{Kind: NoticeSuccess, Message: message}
}

// Failure builds an error notice.
func Failure(message string) Notice {
	return Notice{Kind: NoticeError, Message: message}
}
