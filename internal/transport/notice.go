package transport

// Notice is a transient toast-style message for the dashboard UI.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Notice strings carried over from the dashboard UI, including the
// upstream's SC-prefixed error codes.
const (
	msgLoginSuccess   = "Login successful! Redirecting to your Admin dashboard..."
	msgNotAuthorized  = "SC: You are not authorized!"
	msgGenericFailure = "Something went wrong"
	msgProductAdded   = "Product Added Successfully"
	msgProductDeleted = "Product Deleted Successfully"
	msgOrdersFailed   = "SC:FAILED_TO_GET_ORDERS!"
)

func successNotice(message string) *Notice {
	return &Notice{Level: "success", Message: message}
}

func errorNotice(message string) *Notice {
	return &Notice{Level: "error", Message: message}
}
