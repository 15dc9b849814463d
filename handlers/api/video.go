package api

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/middleware"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/services/summary"
	"github.com/nijaru/yt-summary/validation"
	"github.com/nijaru/yt-summary/workerpool"
	"github.com/sirupsen/logrus"
)

type VideoHandler struct {
	service   summary.Service
	validator *validation.Validator
	pool      *workerpool.Pool
}

func NewVideoHandler(service summary.Service, validator *validation.Validator, pool *workerpool.Pool) *VideoHandler {
	return &VideoHandler{
		service:   service,
		validator: validator,
		pool:      pool,
	}
}

// HandleSummarizeVideo handles POST /video/summarize-video
func (h *VideoHandler) HandleSummarizeVideo(w http.ResponseWriter, r *http.Request) {
	const op = "VideoHandler.HandleSummarizeVideo"
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	var body models.VideoRequestBody
	if err := readJSON(w, r, &body); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(&body); err != nil {
		respondError(w, r, err)
		return
	}
	req := body.Request()

	logger.WithFields(logrus.Fields{
		"url":      req.VideoURL,
		"language": req.TargetLanguage(),
	}).Info("Received summarization request")

	text, err := workerpool.Run(ctx, h.pool, func(jobCtx context.Context) (string, error) {
		return h.service.SummarizeVideo(jobCtx, req)
	})
	if err != nil {
		if _, ok := errors.As(err); !ok {
			var panicErr *workerpool.PanicError
			switch {
			case stderrors.As(err, &panicErr):
				logger.WithField("stack", string(panicErr.Stack)).Error("Panic recovered in summarization job")
				err = errors.Internal(op, err, "Internal server error")
			case errors.Is(err, workerpool.ErrClosed):
				err = errors.Unavailable(op, err, "Server is shutting down")
			case ctx.Err() != nil:
				logger.WithError(err).Warn("Client went away before the summary was ready")
				return
			default:
				err = errors.Internal(op, err, err.Error())
			}
		}
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, models.SummaryResponse{Summary: text})
}
