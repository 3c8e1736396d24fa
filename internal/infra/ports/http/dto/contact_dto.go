package dto

type SendContactRequest struct {
	TargetUsername string `json:"target_username"`
}

type RespondContactRequest struct {
	SourceUsername string `json:"source_username"`
	Response       string `json:"response"`
}
