package summary

import (
	"context"

	"github.com/nijaru/yt-summary/models"
)

type Service interface {
	// SummarizeVideo returns the summary of the video's first transcript in
	// the requested language. Errors are *errors.AppError.
	SummarizeVideo(ctx context.Context, req models.VideoRequest) (string, error)
}

type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID string) (string, error)
}

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
