package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/llm"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/youtube"
	"github.com/sirupsen/logrus"
)

const promptTemplate = "Summarize the following transcript into %s: \n\n%s"

const (
	msgInvalidURL      = "Invalid YouTube URL"
	msgNoSubtitles     = "No subtitles/transcript available for this video"
	msgNoTranscript    = "No transcript found"
	msgEmptyTranscript = "Transcript is empty or unavailable"
)

// providerFailure is the client-facing rendering of one llm.ErrorKind.
type providerFailure struct {
	message        string
	defaultDetails string
	build          func(op string, err error, message string) *errors.AppError
}

var providerFailures = map[llm.ErrorKind]providerFailure{
	llm.KindAuthentication: {
		message:        "Authentication with OpenAI failed",
		defaultDetails: "Invalid or missing API key.",
		build:          errors.Unauthorized,
	},
	llm.KindTimeout: {
		message:        "Summarization failed due to OpenAI timeout",
		defaultDetails: "The request to OpenAI timed out. Please try again.",
		build:          errors.GatewayTimeout,
	},
	llm.KindConnection: {
		message:        "Network issue while connecting to OpenAI",
		defaultDetails: "Please check your internet connection and try again.",
		build:          errors.Unavailable,
	},
	llm.KindRateLimit: {
		message:        "Rate limit exceeded for OpenAI API",
		defaultDetails: "Too many requests. Please wait and try again.",
		build:          errors.TooManyRequests,
	},
	llm.KindAPI: {
		message:        "Unexpected error from OpenAI API",
		defaultDetails: "An unknown error occurred on OpenAI's side.",
		build:          errors.BadGateway,
	},
}

type service struct {
	transcripts TranscriptFetcher
	llm         Completer
	logger      *logrus.Logger
}

// NewService creates a new summary service
func NewService(transcripts TranscriptFetcher, completer Completer, logger *logrus.Logger) Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &service{
		transcripts: transcripts,
		llm:         completer,
		logger:      logger,
	}
}

// BuildPrompt renders the summarization instruction for transcript.
func BuildPrompt(language, transcript string) string {
	return fmt.Sprintf(promptTemplate, language, transcript)
}

func (s *service) SummarizeVideo(ctx context.Context, req models.VideoRequest) (string, error) {
	const op = "SummaryService.SummarizeVideo"
	language := req.TargetLanguage()
	logger := s.logger.WithContext(ctx).WithFields(logrus.Fields{
		"url":      req.VideoURL,
		"language": language,
	})

	videoID, ok := youtube.ExtractVideoID(req.VideoURL)
	if !ok {
		logger.Warn("Invalid URL format")
		return "", errors.InvalidInput(op, nil, msgInvalidURL)
	}
	logger = logger.WithField("video_id", videoID)

	start := time.Now()
	transcript, err := s.transcripts.FetchTranscript(ctx, videoID)
	if err != nil {
		appErr := transcriptError(op, err)
		logger.WithError(err).WithField("status", appErr.Code).Warn("Transcript retrieval failed")
		return "", appErr
	}
	logger.WithFields(logrus.Fields{
		"transcript_chars": len(transcript),
		"duration":         time.Since(start),
	}).Info("Transcript fetched")

	start = time.Now()
	summary, err := s.llm.Complete(ctx, BuildPrompt(language, transcript))
	if err != nil {
		appErr := completionError(op, err)
		logger.WithError(err).WithField("status", appErr.Code).Error("Summarization failed")
		return "", appErr
	}
	logger.WithField("duration", time.Since(start)).Info("Summary generated")

	return summary, nil
}

func transcriptError(op string, err error) *errors.AppError {
	switch {
	case errors.Is(err, youtube.ErrTranscriptsDisabled):
		return errors.NotFound(op, err, msgNoSubtitles)
	case errors.Is(err, youtube.ErrTranscriptNotFound):
		return errors.NotFound(op, err, msgNoTranscript)
	case errors.Is(err, youtube.ErrEmptyTranscript):
		return errors.NotFound(op, err, msgEmptyTranscript)
	default:
		return errors.Internal(op, err, err.Error())
	}
}

func completionError(op string, err error) *errors.AppError {
	pe, ok := llm.AsProviderError(err)
	if !ok {
		return errors.Internal(op, err, err.Error())
	}

	failure, ok := providerFailures[pe.Kind]
	if !ok {
		failure = providerFailures[llm.KindAPI]
	}

	details := failure.defaultDetails
	if pe.Err != nil && pe.Err.Error() != "" {
		details = pe.Err.Error()
	}
	return failure.build(op, err, failure.message).WithDetails(details)
}
