// Package pipeline sequences the three remote calls behind a submission:
// transcription, image analysis, speech synthesis. Failures degrade
// asymmetrically. A failed transcription ends the run since nothing
// downstream is meaningful without it, while analysis and synthesis
// failures are converted to explanatory text and the run continues.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"pulse/log"
	"pulse/player"
	"pulse/transcriber"
	"pulse/tts"
	"pulse/vision"
)

// systemPrompt is sent ahead of the transcript on every analysis call. The
// stylistic constraints are instructions to the remote model, not locally
// enforced rules.
const systemPrompt = `You have to act as a professional doctor, I know you are not but this is for learning purposes.
What's in this image? Do you find anything wrong with it medically?
If you make a differential, suggest some remedies for them. Do not add any numbers or special characters in
your response. Your response should be in one long paragraph. Also always answer as if you are answering to a real person.
Do not say 'In the image I see' but say 'With what I see, I think you have ....'
Don't respond as an AI model in markdown. Your answer should mimic that of an actual doctor, not an AI bot.
Keep your answer concise (max 2 sentences). No preamble, start your answer right away please.`

const (
	noAudioText   = "No audio received."
	noImagePrefix = "No image provided. Diagnosis based on symptoms only:\n\n"

	// Appended to the diagnosis when synthesis fails; the diagnosis body
	// itself is left intact.
	advisorySuffix = "\n\n(Voice playback unavailable.)"
)

// Submission is one user interaction. AudioPath is required in practice;
// without it the run short-circuits. ImagePath is optional.
type Submission struct {
	AudioPath string
	ImagePath string
}

// Result always carries three well-formed fields. AudioPath is empty when
// no artifact exists for this submission.
type Result struct {
	Transcript string
	Diagnosis  string
	AudioPath  string
}

// Options configures the parts of a Pipeline that vary by deployment.
// Player is optional; when set together with Autoplay, each synthesized
// artifact is played synchronously before the result is returned.
type Options struct {
	ArtifactDir string
	Player      player.Player
	Autoplay    bool
}

type Pipeline struct {
	transcriber transcriber.Transcriber
	analyzer    vision.Analyzer
	synthesizer tts.Synthesizer
	opts        Options
}

func New(t transcriber.Transcriber, a vision.Analyzer, s tts.Synthesizer, opts Options) (*Pipeline, error) {
	if opts.ArtifactDir == "" {
		return nil, fmt.Errorf("pipeline: artifact dir not set")
	}
	if err := os.MkdirAll(opts.ArtifactDir, 0o755); err != nil {
		return nil, fmt.Errorf("pipeline: create artifact dir: %w", err)
	}
	return &Pipeline{transcriber: t, analyzer: a, synthesizer: s, opts: opts}, nil
}

// Run executes one submission to completion. It never returns an error;
// every failure mode maps to fallback text in the Result.
func (p *Pipeline) Run(ctx context.Context, sub Submission) Result {
	if sub.AudioPath == "" {
		return Result{Transcript: noAudioText}
	}

	tr, err := p.transcriber.Transcribe(ctx, sub.AudioPath)
	if err != nil {
		log.Errorf("transcription failed: %v", err)
		return Result{Transcript: fmt.Sprintf("Error transcribing audio: %v", err)}
	}
	transcript := tr.Text

	diagnosis := p.diagnose(ctx, transcript, sub.ImagePath)

	audioPath, err := p.synthesize(ctx, diagnosis)
	if err != nil {
		log.Errorf("synthesis failed: %v", err)
		return Result{Transcript: transcript, Diagnosis: diagnosis + advisorySuffix}
	}

	if p.opts.Autoplay && p.opts.Player != nil {
		if err := p.opts.Player.Play(ctx, audioPath); err != nil {
			log.Warnf("playback failed: %v", err)
		}
	}

	return Result{Transcript: transcript, Diagnosis: diagnosis, AudioPath: audioPath}
}

func (p *Pipeline) diagnose(ctx context.Context, transcript, imagePath string) string {
	if imagePath == "" {
		return noImagePrefix + transcript
	}

	text, err := p.analyzer.Analyze(ctx, systemPrompt+" "+transcript, imagePath)
	if err != nil {
		var ie *vision.ImageError
		if errors.As(err, &ie) {
			log.Warnf("image unusable (%s): %v", ie.Kind, ie.Err)
		} else {
			log.Errorf("analysis failed: %v", err)
		}
		return fmt.Sprintf("Error analyzing image: %v", err)
	}
	return text
}

// synthesize writes the spoken diagnosis to a per-submission artifact.
// Unique names keep concurrent submissions from clobbering each other.
func (p *Pipeline) synthesize(ctx context.Context, text string) (string, error) {
	audio, err := p.synthesizer.Synthesize(ctx, text)
	if err != nil {
		return "", err
	}

	path := filepath.Join(p.opts.ArtifactDir, "doctor_"+uuid.NewString()+".mp3")
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}
