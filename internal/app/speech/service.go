package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"hypervoice/pkg/hypervoice"
	"hypervoice/pkg/slg"

	"github.com/google/uuid"
)

var ErrArchiveDisabled = errors.New("audio archive is not configured")

const defaultAudioExt = ".mp3"

var audioContentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
}

// Output says where generated audio should end up besides the returned URL.
type Output struct {
	Path    string
	Archive bool
}

type Outcome struct {
	AudioURL string
	Path     string
	Location string
}

type Service struct {
	client  SpeechClient
	storage Storage
}

// NewService builds the service. storage may be nil when archiving is off.
func NewService(client SpeechClient, storage Storage) *Service {
	return &Service{
		client:  client,
		storage: storage,
	}
}

func (s *Service) Speak(ctx context.Context, req *hypervoice.SynthesisRequest, out Output) (*Outcome, error) {
	logger := slg.GetSlog(ctx)

	if err := s.checkOutput(out); err != nil {
		return nil, err
	}

	res, err := s.client.Synthesize(ctx, req)
	if err != nil {
		logFailure(ctx, "Text to speech failed", err)
		return nil, err
	}

	logger.Info("Success! Audio available", "audio_url", res.AudioURL)

	return s.deliver(ctx, res.AudioURL, out)
}

func (s *Service) Clone(ctx context.Context, text string, speakingRate float64, audioPath string, out Output) (*Outcome, error) {
	logger := slg.GetSlog(ctx)

	if err := s.checkOutput(out); err != nil {
		return nil, err
	}

	res, err := s.client.CloneVoiceFile(ctx, text, speakingRate, audioPath)
	if err != nil {
		logFailure(ctx, "Voice cloning failed", err)
		return nil, err
	}

	logger.Info("Voice cloned successfully! Audio available", "audio_url", res.AudioURL)

	return s.deliver(ctx, res.AudioURL, out)
}

func (s *Service) checkOutput(out Output) error {
	if out.Archive && s.storage == nil {
		return ErrArchiveDisabled
	}

	return nil
}

func (s *Service) deliver(ctx context.Context, audioURL string, out Output) (*Outcome, error) {
	outcome := &Outcome{AudioURL: audioURL}

	if out.Path == "" && !out.Archive {
		return outcome, nil
	}

	logger := slg.GetSlog(ctx)

	var audio bytes.Buffer
	if _, err := s.client.DownloadAudio(ctx, audioURL, &audio); err != nil {
		logFailure(ctx, "Audio download failed", err)
		return nil, fmt.Errorf("failed to download audio: %w", err)
	}

	if out.Path != "" {
		if dir := filepath.Dir(out.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create output dir: %w", err)
			}
		}

		if err := os.WriteFile(out.Path, audio.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write audio file: %w", err)
		}

		outcome.Path = out.Path
		logger.Info("Audio saved", "path", out.Path, "bytes", audio.Len())
	}

	if out.Archive {
		ext := audioExt(audioURL)
		objectName := uuid.NewString() + ext

		location, err := s.storage.PutAudio(ctx, objectName, bytes.NewReader(audio.Bytes()), int64(audio.Len()), contentType(ext))
		if err != nil {
			logger.Error("Audio archive failed", "object", objectName, "err", err)
			return nil, fmt.Errorf("failed to archive audio: %w", err)
		}

		outcome.Location = location
		logger.Info("Audio archived", "location", location)
	}

	return outcome, nil
}

func logFailure(ctx context.Context, msg string, err error) {
	logger := slg.GetSlog(ctx)

	var statusErr *hypervoice.StatusError
	if errors.As(err, &statusErr) {
		logger.Error(msg, "status", statusErr.StatusCode, "body", statusErr.Body)
		return
	}

	logger.Error(msg, "status", hypervoice.StatusCode(err), "err", err)
}

func audioExt(audioURL string) string {
	u, err := url.Parse(audioURL)
	if err != nil {
		return defaultAudioExt
	}

	ext := strings.ToLower(path.Ext(u.Path))
	if _, ok := audioContentTypes[ext]; !ok {
		return defaultAudioExt
	}

	return ext
}

func contentType(ext string) string {
	if ct, ok := audioContentTypes[ext]; ok {
		return ct
	}

	return "application/octet-stream"
}
