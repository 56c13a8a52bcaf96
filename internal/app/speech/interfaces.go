package speech

import (
	"context"
	"io"

	"hypervoice/pkg/hypervoice"
	"hypervoice/pkg/s3client"
)

var (
	_ SpeechClient = (*hypervoice.Client)(nil)
	_ Storage      = (*s3client.Client)(nil)
)

// SpeechClient is the subset of hypervoice.Client the service needs.
type SpeechClient interface {
	Synthesize(ctx context.Context, req *hypervoice.SynthesisRequest) (*hypervoice.Result, error)
	CloneVoiceFile(ctx context.Context, text string, speakingRate float64, path string) (*hypervoice.Result, error)
	DownloadAudio(ctx context.Context, audioURL string, w io.Writer) (int64, error)
}

// Storage archives downloaded audio. Implemented by s3client.Client.
type Storage interface {
	PutAudio(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
}
