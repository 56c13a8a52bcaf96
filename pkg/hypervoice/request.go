package hypervoice

import (
	"fmt"
	"math"
	"strings"
)

const (
	speakerAudioField    = "speaker_audio"
	defaultAudioFilename = "speaker_audio"
)

// SynthesisRequest is the text-to-speech payload.
type SynthesisRequest struct {
	Text         string             `json:"text"`
	VoiceName    string             `json:"voice_name"`
	SpeakingRate float64            `json:"speaking_rate"`
	Emotion      map[string]float64 `json:"emotion,omitempty"`
}

// CloneRequest is the voice-clone payload. SpeakerAudio stays owned by the caller.
type CloneRequest struct {
	Text         string
	SpeakingRate float64
	SpeakerAudio []byte
	Filename     string
}

// Result is the outcome of a successful synthesis or clone call.
type Result struct {
	AudioURL string
}

func (r *SynthesisRequest) validate() error {
	if err := validateText(r.Text); err != nil {
		return err
	}

	if err := validateRate(r.SpeakingRate); err != nil {
		return err
	}

	for label, weight := range r.Emotion {
		if strings.TrimSpace(label) == "" {
			return invalid("emotion label must not be empty")
		}

		if math.IsNaN(weight) || weight < 0 || weight > 1 {
			return invalid(fmt.Sprintf("emotion %q weight %v is outside [0,1]", label, weight))
		}
	}

	return nil
}

// withFilename copies the request, naming the audio part when the caller did not.
func (r *CloneRequest) withFilename() *CloneRequest {
	out := *r

	if strings.TrimSpace(out.Filename) == "" {
		out.Filename = defaultAudioFilename
	}

	return &out
}

func (r *CloneRequest) validate() error {
	if err := validateText(r.Text); err != nil {
		return err
	}

	if err := validateRate(r.SpeakingRate); err != nil {
		return err
	}

	if len(r.SpeakerAudio) == 0 {
		return invalid("speaker audio must not be empty")
	}

	return nil
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return invalid("text must not be empty")
	}

	return nil
}

func validateRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return invalid(fmt.Sprintf("speaking rate must be positive, got %v", rate))
	}

	return nil
}
