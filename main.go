package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"pulse/config"
	"pulse/doctor"
	"pulse/log"
	"pulse/pipeline"
	"pulse/player"
	"pulse/shutdown"
	"pulse/transcriber"
	"pulse/tts"
	"pulse/vision"
	"pulse/web"
)

var version = "dev"

func main() {
	recordFlag := flag.Bool("record", false, "Capture one phrase from the microphone and run it through the pipeline")
	imageFlag := flag.String("image", "", "Image file to analyze alongside the recording (record mode)")
	timeoutFlag := flag.Duration("timeout", 20*time.Second, "Max time to wait for speech before giving up (record mode)")
	phraseFlag := flag.Duration("phrase-limit", 15*time.Second, "Max phrase duration (record mode)")
	setupFlag := flag.Bool("setup", false, "Select microphone device (otherwise uses system default)")
	deviceFlag := flag.String("device", "", "Use named microphone device")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run deployment diagnostics and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("pulse %s\n", version)
		return
	}

	if *doctorFlag {
		os.Exit(doctor.Run())
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Init(cfg.ArtifactDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	groq := transcriber.NewGroq(cfg.GroqAPIKey)
	gemini := vision.NewGemini(cfg.GoogleAPIKey, cfg.GeminiModel)
	synth, err := tts.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	pipe, err := pipeline.New(groq, gemini, synth, pipeline.Options{
		ArtifactDir: cfg.ArtifactDir,
		Player:      player.System(),
		Autoplay:    *recordFlag || cfg.Autoplay,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log.Infof("pulse %s starting (tts=%s, model=%s)", version, synth.Name(), cfg.GeminiModel)

	if *recordFlag {
		err := runRecord(pipe, recordOptions{
			Timeout:     *timeoutFlag,
			PhraseLimit: *phraseFlag,
			DeviceName:  *deviceFlag,
			Setup:       *setupFlag,
			ImagePath:   *imageFlag,
		})
		if err != nil {
			log.Errorf("record mode: %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	go web.ServeLiveness()

	srv := web.NewServer(pipe, cfg.ArtifactDir, cfg.Port)

	sigCh := make(chan os.Signal, 1)
	shutdown.Notify(sigCh)
	go func() {
		sig := <-sigCh
		log.Infof("received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warnf("shutdown: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil {
		log.Errorf("server: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
