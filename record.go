package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"pulse/audio"
	"pulse/beep"
	"pulse/encoder"
	"pulse/log"
	"pulse/pipeline"
)

type recordOptions struct {
	Timeout     time.Duration
	PhraseLimit time.Duration
	DeviceName  string
	Setup       bool
	ImagePath   string
}

// runRecord captures one phrase from the microphone, feeds it through the
// pipeline, and prints the result. Start and end cues bracket the capture.
func runRecord(pipe *pipeline.Pipeline, opts recordOptions) error {
	ctx, err := audio.NewContext()
	if err != nil {
		return fmt.Errorf("initializing audio: %w", err)
	}
	defer ctx.Close()

	device, err := resolveDevice(ctx, opts)
	if err != nil {
		return err
	}
	if device != nil {
		if audio.IsBluetooth(device.Name) {
			fmt.Printf("Using device: %s (bluetooth, lower quality)\n", device.Name)
		} else {
			fmt.Printf("Using device: %s\n", device.Name)
		}
	}

	capture, err := ctx.NewCapture(device, audio.CaptureConfig{
		SampleRate: encoder.SampleRate,
		Channels:   encoder.Channels,
	})
	if err != nil {
		return fmt.Errorf("initializing capture: %w", err)
	}
	defer capture.Close()

	enc, err := encoder.NewFlac()
	if err != nil {
		return err
	}

	var mu sync.Mutex
	var pending []int16
	var encodeErr error
	var level float64

	capture.SetCallback(func(data []byte, _ uint32) {
		if len(data) < 2 {
			return
		}

		samples := make([]int16, len(data)/2)
		var sumSquares float64
		for i := range samples {
			s := int16(binary.LittleEndian.Uint16(data[i*2:]))
			samples[i] = s
			normalized := float64(s) / 32768.0
			sumSquares += normalized * normalized
		}

		mu.Lock()
		defer mu.Unlock()
		level = math.Sqrt(sumSquares / float64(len(samples)))
		if encodeErr != nil {
			return
		}
		pending = append(pending, samples...)
		for len(pending) >= encoder.BlockSize {
			if err := enc.EncodeBlock(pending[:encoder.BlockSize]); err != nil {
				encodeErr = err
				return
			}
			pending = pending[encoder.BlockSize:]
		}
	})

	beep.PlayStart()
	if err := capture.Start(); err != nil {
		capture.ClearCallback()
		return fmt.Errorf("starting capture: %w", err)
	}

	fmt.Println("Listening... speak your symptoms.")

	mon := newListenMonitor(opts.Timeout, opts.PhraseLimit)
	ticker := time.NewTicker(tickInterval)
	timedOut := false
loop:
	for range ticker.C {
		mu.Lock()
		hasSpeech := level > speechRMSThreshold
		failed := encodeErr
		mu.Unlock()
		if failed != nil {
			break
		}

		switch mon.Tick(hasSpeech) {
		case ListenTimeout:
			timedOut = true
			break loop
		case ListenPhraseLimit:
			log.Info("phrase_limit_reached")
			break loop
		case ListenPhraseEnd:
			break loop
		}
	}
	ticker.Stop()

	capture.Stop()
	capture.ClearCallback()
	beep.PlayEnd()

	mu.Lock()
	if encodeErr == nil && len(pending) > 0 {
		encodeErr = enc.EncodeBlock(pending)
	}
	mu.Unlock()
	if encodeErr != nil {
		return fmt.Errorf("encoding audio: %w", encodeErr)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing audio: %w", err)
	}

	audioPath := ""
	if !timedOut && enc.TotalFrames() >= encoder.SampleRate/10 {
		f, err := os.CreateTemp("", "pulse-recording-*.flac")
		if err != nil {
			return err
		}
		if _, err := f.Write(enc.Bytes()); err != nil {
			f.Close()
			return err
		}
		f.Close()
		defer os.Remove(f.Name())
		audioPath = f.Name()
		log.Infof("captured %.1fs (%d KB flac)", enc.Duration().Seconds(), len(enc.Bytes())/1024)
	}

	res := pipe.Run(context.Background(), pipeline.Submission{
		AudioPath: audioPath,
		ImagePath: opts.ImagePath,
	})

	fmt.Println()
	fmt.Printf("Transcribed: %s\n", res.Transcript)
	if res.Diagnosis != "" {
		fmt.Printf("Doctor's response: %s\n", res.Diagnosis)
	}
	if res.AudioPath != "" {
		fmt.Printf("Audio saved: %s\n", res.AudioPath)
	}
	return nil
}

func resolveDevice(ctx audio.Context, opts recordOptions) (*audio.DeviceInfo, error) {
	if opts.DeviceName != "" {
		devices, err := ctx.Devices()
		if err != nil {
			return nil, fmt.Errorf("enumerating devices: %w", err)
		}
		for i := range devices {
			if devices[i].Name == opts.DeviceName {
				return &devices[i], nil
			}
		}
		return nil, fmt.Errorf("device not found: %s", opts.DeviceName)
	}
	if opts.Setup {
		dev, err := audio.SelectDevice(ctx)
		if err != nil {
			log.Warnf("device selection failed: %v", err)
			fmt.Println("Falling back to default device")
			return nil, nil
		}
		return dev, nil
	}
	return nil, nil
}
