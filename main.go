package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Okorin/osu-sbgen/api"
	"github.com/Okorin/osu-sbgen/config"
	"github.com/Okorin/osu-sbgen/scene"
	"github.com/Okorin/osu-sbgen/storyboard"
	"github.com/Okorin/osu-sbgen/stream"
)

type app struct {
	Config     config.Config
	Storyboard *storyboard.Storyboard
	Client     mqtt.Client
	Streamer   *stream.Streamer
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) readConfig(configPath, envPath string) error {
	c, err := config.Load(configPath, envPath)
	if err != nil {
		return err
	}
	a.Config = c
	return nil
}

// build loads the difficulty, applies the scene and writes the .osb.
func (a *app) build() error {
	song := a.Config.Song
	sb, err := storyboard.New(song.Folder, song.Difficulty, song.StoryboardFolder)
	if err != nil {
		return err
	}
	a.Storyboard = sb
	log.WithFields(log.Fields{
		"version":      sb.Difficulty().Version,
		"timingPoints": sb.Timing().Len(),
	}).Debug("Difficulty loaded")

	if a.Config.Scene != "" {
		s, err := scene.Load(a.Config.Scene)
		if err != nil {
			return err
		}
		if err := s.Apply(sb); err != nil {
			return fmt.Errorf("apply scene: %w", err)
		}
	}

	p, err := sb.SaveOSB(song.Output)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"path": p, "elements": len(sb.Elements())}).Info("Storyboard written")
	return nil
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Info("Connected")
	if err := a.Streamer.Subscribe(); err != nil {
		log.WithError(err).Error("Subscribe failed")
	}
}

// publish connects to the broker, publishes the storyboard and plays
// preview frames on request until ctx is done.
func (a *app) publish(ctx context.Context) error {
	m := a.Config.Mqtt
	options := mqtt.NewClientOptions().
		AddBroker(m.URL).
		SetClientID("osu-sbgen-" + uuid.NewString()).
		SetUsername(m.Username).
		SetPassword(m.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)
	a.Streamer = stream.NewStreamer(m, a.Client, a.Storyboard)

	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect %s: %w", m.URL, token.Error())
	}
	defer a.Client.Disconnect(250)

	if err := a.Streamer.PublishStoryboard(); err != nil {
		return err
	}
	if err := a.Streamer.Run(ctx, stream.FrameInterval); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func main() {
	mqtt.ERROR = stream.Logger(log.ErrorLevel)
	mqtt.CRITICAL = stream.Logger(log.ErrorLevel)
	mqtt.WARN = stream.Logger(log.WarnLevel)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	envPath := flag.String("env", ".env", "Environment file.")
	scenePath := flag.String("scene", "", "YAML scene script; overrides the config.")
	outPath := flag.String("out", "", "Output .osb path; defaults to the song folder.")
	serve := flag.Bool("serve", false, "Serve the storyboard and previews over HTTP.")
	publish := flag.Bool("publish", false, "Publish the storyboard over MQTT.")
	flag.Parse()

	// Read the config
	a := newApp()
	if err := a.readConfig(*configPath, *envPath); err != nil {
		config.Exitf("read config: %v", err)
	}
	if *scenePath != "" {
		a.Config.Scene = *scenePath
	}
	if *outPath != "" {
		a.Config.Song.Output = *outPath
	}

	logFile, err := a.Config.Log.Setup()
	if err != nil {
		config.Exitf("set up logging: %v", err)
	}
	defer logFile.Close()
	log.WithFields(log.Fields{
		"song":       filepath.Join(a.Config.Song.Folder, a.Config.Song.Difficulty),
		"scene":      a.Config.Scene,
		"mqtt":       a.Config.Mqtt.URL,
		"serve":      a.Config.Serve.Addr,
		"storyboard": a.Config.Song.StoryboardFolder,
	}).Debug("Config")

	if err := a.build(); err != nil {
		log.WithError(err).Error("Build failed")
		logFile.Close()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 2)
	running := 0
	if *publish {
		running++
		go func() { errs <- a.publish(ctx) }()
	}
	if *serve {
		running++
		go func() {
			errs <- api.NewApi(a.Storyboard, a.Config.Serve.ClientDir).Serve(ctx, a.Config.Serve.Addr)
		}()
	}
	for ; running > 0; running-- {
		if err := <-errs; err != nil {
			log.WithError(err).Error("Stopped")
			stop()
		}
	}
}
