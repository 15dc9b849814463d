package validation

import (
	"net/http"
	"testing"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidateStruct(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name    string
		req     models.VideoRequestBody
		wantErr bool
	}{
		{
			name:    "URL and language",
			req:     models.VideoRequestBody{VideoURL: strPtr("https://www.youtube.com/watch?v=dQw4w9WgXcQ"), Language: "fr"},
			wantErr: false,
		},
		{
			name:    "URL only",
			req:     models.VideoRequestBody{VideoURL: strPtr("https://www.youtube.com/watch?v=dQw4w9WgXcQ")},
			wantErr: false,
		},
		{
			name:    "unparseable URL is not a schema error",
			req:     models.VideoRequestBody{VideoURL: strPtr("not-a-url")},
			wantErr: false,
		},
		{
			name:    "empty URL is left to URL parsing",
			req:     models.VideoRequestBody{VideoURL: strPtr("")},
			wantErr: false,
		},
		{
			name:    "missing URL",
			req:     models.VideoRequestBody{Language: "en"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStructDetails(t *testing.T) {
	err := NewValidator().ValidateStruct(&models.VideoRequestBody{})
	require.Error(t, err)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Invalid request body", appErr.Message)

	fields, ok := appErr.Details.([]FieldError)
	require.True(t, ok)
	require.Len(t, fields, 1)
	assert.Equal(t, FieldError{Field: "video_url", Tag: "required", Message: "field required"}, fields[0])
}
