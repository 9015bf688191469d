package stream

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Control message types.
const (
	ControlPlay  = "play"
	ControlPause = "pause"
	ControlSeek  = "seek"
)

// ErrUnknownControl is returned for a control message of an unknown type.
var ErrUnknownControl = errors.New("unknown control message")

// ControlMessage drives playback. Time is optional for play.
type ControlMessage struct {
	Type string `json:"type"`
	Time *int   `json:"time,omitempty"`
}

// Subscribe listens for control messages on the control topic.
func (s *Streamer) Subscribe() error {
	if err := wait(s.client.Subscribe(s.config.Topics.Control, 0, s.handleControlMessages)); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.config.Topics.Control, err)
	}
	log.WithField("topic", s.config.Topics.Control).Info("Subscribed to control messages")
	return nil
}

func (s *Streamer) handleControlMessages(client mqtt.Client, msg mqtt.Message) {
	log.WithFields(log.Fields{"id": msg.MessageID(), "topic": msg.Topic()}).Debugf("Received %s", msg.Payload())

	var message ControlMessage
	if err := json.Unmarshal(msg.Payload(), &message); err != nil {
		log.WithError(err).Warn("Ignoring malformed control message")
		return
	}
	if err := s.Control(message); err != nil {
		log.WithError(err).Warn("Control message failed")
	}
}

// Control applies a control message. A seek sends the frame at the new
// position right away.
func (s *Streamer) Control(m ControlMessage) error {
	s.mu.Lock()
	switch m.Type {
	case ControlPlay:
		s.advance()
		if m.Time != nil {
			s.positionMs = *m.Time
		}
		s.playing = true
		s.last = s.now()
	case ControlPause:
		s.advance()
		s.playing = false
	case ControlSeek:
		if m.Time == nil {
			s.mu.Unlock()
			return errors.New("seek: missing time")
		}
		s.advance()
		s.positionMs = *m.Time
	default:
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownControl, m.Type)
	}
	position := s.positionMs
	s.mu.Unlock()

	log.WithFields(log.Fields{"type": m.Type, "position": position}).Debug("Applied control message")
	if m.Type == ControlSeek {
		return s.SendFrame(position)
	}
	return nil
}
