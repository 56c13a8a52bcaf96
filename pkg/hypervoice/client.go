package hypervoice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"hypervoice/pkg/tools"

	"github.com/tidwall/gjson"
)

const (
	endpointTextToSpeech = "text-to-speech"
	endpointVoiceClone   = "voice-clone"
	endpointDownload     = "download"

	maxErrorBodyBytes = 64 << 10
)

var _ HTTPClient = http.DefaultClient

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the HyperVoice API. It holds no mutable state and is safe for
// concurrent use.
type Client struct {
	cfg        Config
	httpClient HTTPClient
}

// New builds a client. A nil httpClient selects an http.Client using cfg.Timeout.
func New(httpClient HTTPClient, cfg *Config) *Client {
	var c Config
	if cfg != nil {
		c = *cfg
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: c.Timeout}
	}

	return &Client{
		cfg:        c,
		httpClient: httpClient,
	}
}

// Synthesize generates speech for req.Text with a stock voice.
func (c *Client) Synthesize(ctx context.Context, req *SynthesisRequest) (*Result, error) {
	if req == nil {
		return nil, invalid("nil request provided")
	}

	if err := req.validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(endpointTextToSpeech), bytes.NewReader(body))
	if err != nil {
		return nil, fail(endpointTextToSpeech, &TransportError{Op: endpointTextToSpeech, Err: err})
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	return c.do(httpReq, endpointTextToSpeech)
}

// CloneVoice generates speech for req.Text imitating the voice in req.SpeakerAudio.
func (c *Client) CloneVoice(ctx context.Context, req *CloneRequest) (*Result, error) {
	if req == nil {
		return nil, invalid("nil request provided")
	}

	if err := req.validate(); err != nil {
		return nil, err
	}

	safeReq := req.withFilename()

	return c.cloneVoice(ctx, safeReq, bytes.NewReader(safeReq.SpeakerAudio))
}

// CloneVoiceFile is CloneVoice with the speaker audio read from path. The file
// is closed before the call returns.
func (c *Client) CloneVoiceFile(ctx context.Context, text string, speakingRate float64, path string) (*Result, error) {
	safeReq := (&CloneRequest{
		Text:         text,
		SpeakingRate: speakingRate,
		Filename:     filepath.Base(path),
	}).withFilename()

	if err := validateText(safeReq.Text); err != nil {
		return nil, err
	}

	if err := validateRate(safeReq.SpeakingRate); err != nil {
		return nil, err
	}

	audioFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open speaker audio: %w", err)
	}
	defer audioFile.Close()

	info, err := audioFile.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat speaker audio: %w", err)
	}

	if info.IsDir() {
		return nil, invalid(fmt.Sprintf("speaker audio %s is a directory", path))
	}

	if info.Size() == 0 {
		return nil, invalid("speaker audio must not be empty")
	}

	return c.cloneVoice(ctx, safeReq, audioFile)
}

func (c *Client) cloneVoice(ctx context.Context, req *CloneRequest, audio io.Reader) (*Result, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("text", req.Text); err != nil {
		return nil, fmt.Errorf("failed to write text field: %w", err)
	}

	if err := writer.WriteField("speaking_rate", strconv.FormatFloat(req.SpeakingRate, 'f', -1, 64)); err != nil {
		return nil, fmt.Errorf("failed to write speaking_rate field: %w", err)
	}

	part, err := writer.CreateFormFile(speakerAudioField, req.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create speaker_audio part: %w", err)
	}

	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("failed to read speaker audio: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(endpointVoiceClone), &buf)
	if err != nil {
		return nil, fail(endpointVoiceClone, &TransportError{Op: endpointVoiceClone, Err: err})
	}

	// The boundary lives in the content type, so the writer decides it.
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(httpReq, endpointVoiceClone)
}

// DownloadAudio copies the audio behind audioURL into w. The API key is not sent.
func (c *Client) DownloadAudio(ctx context.Context, audioURL string, w io.Writer) (int64, error) {
	if strings.TrimSpace(audioURL) == "" {
		return 0, invalid("audio url must not be empty")
	}

	start := time.Now()

	n, err := c.download(ctx, audioURL, w)
	if err != nil {
		return n, fail(endpointDownload, err)
	}

	metrics.QueryTime.WithLabelValues(endpointDownload).Observe(time.Since(start).Seconds())

	return n, nil
}

func (c *Client) download(ctx context.Context, audioURL string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return 0, &TransportError{Op: endpointDownload, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &TransportError{Op: endpointDownload, Err: err}
	}
	defer tools.DrainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return 0, &StatusError{Op: endpointDownload, StatusCode: resp.StatusCode, Body: string(body)}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &TransportError{Op: endpointDownload, Err: err}
	}

	return n, nil
}

func (c *Client) do(req *http.Request, endpoint string) (*Result, error) {
	start := time.Now()

	res, err := c.roundTrip(req, endpoint)
	if err != nil {
		return nil, fail(endpoint, err)
	}

	metrics.QueryTime.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	return res, nil
}

func (c *Client) roundTrip(req *http.Request, endpoint string) (*Result, error) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: endpoint, Err: err}
	}
	defer tools.DrainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		// a broken body still leaves the status; keep what arrived
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &StatusError{Op: endpoint, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: endpoint, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	return parseResult(endpoint, respBody)
}

func fail(endpoint string, err error) error {
	metrics.Errors.WithLabelValues(endpoint, errCode(err)).Inc()
	return err
}

func (c *Client) url(endpoint string) string {
	return tools.JoinURL(c.cfg.baseURL(), endpoint)
}

func parseResult(op string, body []byte) (*Result, error) {
	malformed := func(reason string) error {
		return &MalformedResponseError{Op: op, Body: string(body), Reason: reason}
	}

	if !gjson.ValidBytes(body) {
		return nil, malformed("body is not valid JSON")
	}

	audioURL := gjson.GetBytes(body, "audio_url")

	switch {
	case !audioURL.Exists():
		return nil, malformed("audio_url is missing")
	case audioURL.Type != gjson.String:
		return nil, malformed(fmt.Sprintf("audio_url is %s, not a string", audioURL.Type))
	case strings.TrimSpace(audioURL.Str) == "":
		return nil, malformed("audio_url is empty")
	}

	return &Result{AudioURL: audioURL.Str}, nil
}
