// Package stream publishes storyboards and their preview frames over MQTT.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/Okorin/osu-sbgen/preview"
	"github.com/Okorin/osu-sbgen/storyboard"
)

// FrameInterval is the default delay between preview frames.
const FrameInterval = 33 * time.Millisecond

// Client is the part of mqtt.Client a Streamer uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
}

// Streamer publishes a storyboard and plays it back as preview frames.
type Streamer struct {
	config Config
	client Client
	sb     *storyboard.Storyboard
	now    func() time.Time

	mu         sync.Mutex
	playing    bool
	positionMs int
	last       time.Time
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(config Config, client Client, sb *storyboard.Storyboard) *Streamer {
	s := new(Streamer)
	s.config = config
	s.client = client
	s.sb = sb
	s.now = time.Now
	return s
}

func wait(token mqtt.Token) error {
	token.Wait()
	return token.Error()
}

// Write publishes p as one retained message on the storyboard topic.
func (s *Streamer) Write(p []byte) (int, error) {
	if err := wait(s.client.Publish(s.config.Topics.Storyboard, 1, true, p)); err != nil {
		return 0, fmt.Errorf("publish storyboard: %w", err)
	}
	return len(p), nil
}

// PublishStoryboard sends the rendered .osb as a single message.
func (s *Streamer) PublishStoryboard() error {
	n, err := s.sb.WriteOSB(s)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"topic": s.config.Topics.Storyboard, "bytes": n}).Info("Published storyboard")
	return nil
}

// SendFrame publishes the preview frame at runtimeMs as JSON.
func (s *Streamer) SendFrame(runtimeMs int) error {
	b, err := json.Marshal(preview.CalculateFrame(s.sb, runtimeMs))
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if err := wait(s.client.Publish(s.config.Topics.Preview, 0, false, b)); err != nil {
		return fmt.Errorf("publish frame: %w", err)
	}
	return nil
}

// Position returns the playback position in song time.
func (s *Streamer) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advance()
}

// Playing reports whether playback is running.
func (s *Streamer) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// advance moves the position by the wall time since the last call while
// playing. Callers hold mu.
func (s *Streamer) advance() int {
	if s.playing {
		now := s.now()
		s.positionMs += int(now.Sub(s.last).Milliseconds())
		s.last = now
	}
	return s.positionMs
}

// Run sends a frame every interval while playing, until ctx is done.
func (s *Streamer) Run(ctx context.Context, interval time.Duration) error {
	publishTimer := time.NewTicker(interval)
	defer publishTimer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-publishTimer.C:
			if !s.Playing() {
				continue
			}
			if err := s.SendFrame(s.Position()); err != nil {
				log.WithError(err).Warn("Failed to send frame")
			}
		}
	}
}
