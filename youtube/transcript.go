package youtube

import (
	"context"
	"encoding/xml"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://www.youtube.com"

	maxPlayerBytes    = 3 * 1024 * 1024
	maxTimedTextBytes = 4 * 1024 * 1024
)

var (
	// ErrTranscriptsDisabled means the video lists no caption tracks at all.
	ErrTranscriptsDisabled = errors.New("transcripts are disabled for this video")
	// ErrTranscriptNotFound means a track was listed but fetching it returned no segments.
	ErrTranscriptNotFound = errors.New("no transcript found")
	// ErrEmptyTranscript means the fetched segments join to blank text.
	ErrEmptyTranscript = errors.New("transcript is empty")
	// ErrVideoUnavailable means the player refused the video (private, removed, bad id).
	ErrVideoUnavailable = errors.New("video is unavailable")
)

// formattingTagRE matches markup such as <font> and <i> left in caption text
// after unescaping.
var formattingTagRE = regexp.MustCompile(`<[^>]*>`)

// Client lists and fetches video transcripts through the Innertube API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: httpClient,
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snippet is one timed text segment of a transcript.
type Snippet struct {
	Text     string
	Start    float64
	Duration float64
}

// Transcript is one listed caption track. Fetch downloads its segments.
type Transcript struct {
	VideoID      string
	Language     string
	LanguageCode string
	IsGenerated  bool
	Translatable bool

	url    string
	client *Client
}

// TranscriptList holds the caption tracks of a video in listing order.
type TranscriptList struct {
	VideoID     string
	Transcripts []*Transcript
}

// First returns the first listed track, or nil if there is none.
func (l *TranscriptList) First() *Transcript {
	if l == nil || len(l.Transcripts) == 0 {
		return nil
	}
	return l.Transcripts[0]
}

// List returns every caption track available for videoID.
func (c *Client) List(ctx context.Context, videoID string) (*TranscriptList, error) {
	player, err := c.fetchPlayer(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if ps := player.PlayabilityStatus; ps != nil && ps.Status != playabilityOK {
		reason := ps.Reason
		if reason == "" {
			reason = ps.Status
		}
		return nil, errors.Wrapf(ErrVideoUnavailable, "%s: %s", videoID, reason)
	}

	if player.Captions == nil || player.Captions.PlayerCaptionsTracklistRenderer == nil ||
		len(player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks) == 0 {
		return nil, errors.Wrap(ErrTranscriptsDisabled, videoID)
	}

	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	list := &TranscriptList{
		VideoID:     videoID,
		Transcripts: make([]*Transcript, 0, len(tracks)),
	}
	for _, track := range tracks {
		list.Transcripts = append(list.Transcripts, &Transcript{
			VideoID:      videoID,
			Language:     track.displayName(),
			LanguageCode: track.LanguageCode,
			IsGenerated:  track.Kind == "asr",
			Translatable: track.IsTranslatable,
			url:          strings.Replace(track.BaseURL, "&fmt=srv3", "", 1),
			client:       c,
		})
	}
	return list, nil
}

// Fetch downloads and parses the track's timed text.
func (t *Transcript) Fetch(ctx context.Context) ([]Snippet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build timedtext request")
	}
	req.Header.Set("User-Agent", androidUserAgent)

	resp, err := t.client.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch timedtext")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch timedtext: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTimedTextBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read timedtext")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, errors.Wrap(err, "parse timedtext XML")
	}

	snippets := make([]Snippet, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		if line.Text == "" {
			continue
		}
		snippets = append(snippets, Snippet{
			Text:     formattingTagRE.ReplaceAllString(html.UnescapeString(line.Text), ""),
			Start:    line.Start,
			Duration: line.Duration,
		})
	}
	return snippets, nil
}

// FetchTranscript lists the video's tracks, fetches the first one and joins
// its segment text with single spaces.
func (c *Client) FetchTranscript(ctx context.Context, videoID string) (string, error) {
	list, err := c.List(ctx, videoID)
	if err != nil {
		return "", err
	}

	for _, t := range list.Transcripts {
		c.logger.WithFields(logrus.Fields{
			"video_id":       videoID,
			"language":       t.Language,
			"language_code":  t.LanguageCode,
			"auto_generated": t.IsGenerated,
			"translatable":   t.Translatable,
		}).Debug("Transcript track available")
	}

	track := list.First()
	if track == nil {
		return "", errors.Wrap(ErrTranscriptsDisabled, videoID)
	}

	snippets, err := track.Fetch(ctx)
	if err != nil {
		return "", err
	}
	if len(snippets) == 0 {
		return "", errors.Wrapf(ErrTranscriptNotFound, "%s (%s)", videoID, track.LanguageCode)
	}

	texts := make([]string, len(snippets))
	for i, s := range snippets {
		texts[i] = s.Text
	}
	text := strings.Join(texts, " ")
	if strings.TrimSpace(text) == "" {
		return "", errors.Wrapf(ErrEmptyTranscript, "%s (%s)", videoID, track.LanguageCode)
	}

	return text, nil
}
