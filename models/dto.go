package models

const DefaultLanguage = "en"

// VideoRequestBody is the wire form of POST /video/summarize-video. The URL
// must be present but may be empty; an empty URL fails URL parsing later.
type VideoRequestBody struct {
	VideoURL *string `json:"video_url" validate:"required"`
	Language string  `json:"language,omitempty"`
}

// Request converts a validated body into a VideoRequest.
func (b VideoRequestBody) Request() VideoRequest {
	req := VideoRequest{Language: b.Language}
	if b.VideoURL != nil {
		req.VideoURL = *b.VideoURL
	}
	return req
}

// VideoRequest is a summarization request after decoding.
type VideoRequest struct {
	VideoURL string
	Language string
}

// TargetLanguage returns the requested language, or DefaultLanguage.
func (r *VideoRequest) TargetLanguage() string {
	if r.Language == "" {
		return DefaultLanguage
	}
	return r.Language
}

// SummaryResponse is the success body. The key is part of the public API.
type SummaryResponse struct {
	Summary string `json:"summarize transcript"`
}

type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}
