package tools_test

import (
	"io"
	"strings"
	"testing"

	"hypervoice/pkg/tools"

	"github.com/stretchr/testify/require"
)

type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

func TestDrainAndClose(t *testing.T) {
	t.Parallel()

	body := &trackingBody{Reader: strings.NewReader("leftover")}

	tools.DrainAndClose(body)

	require.True(t, body.closed)

	rest, err := io.ReadAll(body.Reader)
	require.NoError(t, err)
	require.Empty(t, rest)
}

func TestJoinURL(t *testing.T) {
	t.Parallel()

	require.Equal(t, "https://x.test/v4/voice-clone", tools.JoinURL("https://x.test/v4/", "/voice-clone"))
	require.Equal(t, "https://x.test/v4/text-to-speech", tools.JoinURL("https://x.test/v4", "text-to-speech"))
}
