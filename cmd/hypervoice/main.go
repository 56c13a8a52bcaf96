package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"hypervoice/cfg"
	"hypervoice/internal/app/speech"
	"hypervoice/pkg/hypervoice"
	"hypervoice/pkg/metrics"
	"hypervoice/pkg/s3client"
	"hypervoice/pkg/slg"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"
)

var version = "dev"

type (
	cmd struct {
		CfgPath string `name:"cfg-path" default:"cfg/cfg.yaml" help:"Path to config file." type:"path"`

		Version struct{} `cmd:"" help:"Show version."`
		TTS     cmdTTS   `cmd:"" name:"tts" help:"Generate speech from text with a stock voice."`
		Clone   cmdClone `cmd:"" help:"Generate speech from text imitating a voice sample."`
	}
	outputFlags struct {
		Out     string `help:"Download the generated audio to this file." type:"path"`
		Archive bool   `help:"Upload the generated audio to the configured S3 bucket."`
	}
	cmdTTS struct {
		Text      string             `arg:"" help:"Text to speak."`
		Voice     string             `default:"emma" help:"Voice name."`
		Rate      float64            `default:"15" help:"Speaking rate."`
		Emotion   map[string]float64 `default:"happy=0.7" mapsep:";" help:"Emotion weights in [0,1], e.g. happy=0.7;calm=0.2."`
		NoEmotion bool               `name:"no-emotion" help:"Send no emotion weights."`
		Output    outputFlags        `embed:""`
	}
	cmdClone struct {
		Text      string      `arg:"" help:"Text to speak."`
		AudioPath string      `arg:"" name:"audio-path" help:"Voice sample to clone." type:"path"`
		Rate      float64     `default:"15" help:"Speaking rate."`
		Output    outputFlags `embed:""`
	}
)

func (o outputFlags) toOutput() speech.Output {
	return speech.Output{Path: o.Out, Archive: o.Archive}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := doMain(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	os.Exit(code)
}

func doMain(ctx context.Context, stdout, stderr io.Writer, args []string) int {
	var c cmd
	parser, err := kong.New(&c,
		kong.Name("hypervoice"),
		kong.Description("HyperVoice V4 text-to-speech and voice cloning client"),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating parser: %v\n", err)
		return 2
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%v", err)
		return 2
	}

	if kctx.Command() == "version" {
		fmt.Fprintf(stdout, "hypervoice: %s\n", version)
		return 0
	}

	config, err := cfg.Load(c.CfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "can't load config: %v\n", err)
		return 1
	}

	logger, err := slg.New(stderr, &config.Log)
	if err != nil {
		fmt.Fprintf(stderr, "can't build logger: %v\n", err)
		return 1
	}

	reg := prometheus.NewRegistry()
	hypervoice.RegisterMetrics(reg)
	defer metrics.LogMetrics(ctx, reg, logger.WithGroup("metrics"))

	client := hypervoice.New(nil, &config.HyperVoice)

	var storage speech.Storage
	if config.S3.Enabled() {
		s3, err := s3client.New(&config.S3)
		if err != nil {
			logger.Error("failed to init s3 client", "err", err)
			return 1
		}
		storage = s3
	}

	service := speech.NewService(client, storage)
	ctx = slg.WithSlog(ctx, logger.WithGroup("speech"))

	var outcome *speech.Outcome

	switch kctx.Command() {
	case "tts <text>":
		emotion := c.TTS.Emotion
		if c.TTS.NoEmotion {
			emotion = nil
		}

		outcome, err = service.Speak(ctx, &hypervoice.SynthesisRequest{
			Text:         c.TTS.Text,
			VoiceName:    c.TTS.Voice,
			SpeakingRate: c.TTS.Rate,
			Emotion:      emotion,
		}, c.TTS.Output.toOutput())
	case "clone <text> <audio-path>":
		outcome, err = service.Clone(ctx, c.Clone.Text, c.Clone.Rate, c.Clone.AudioPath, c.Clone.Output.toOutput())
	default:
		panic("unreachable")
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, outcome.AudioURL)

	return 0
}
