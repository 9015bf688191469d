package stream

import (
	"fmt"

	"github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// pahoLogger routes paho's internal logging into logrus at a fixed level.
type pahoLogger struct {
	level log.Level
	entry *log.Entry
}

// Logger returns a paho logger writing to logrus at level, for use as
// mqtt.ERROR, mqtt.WARN and friends.
func Logger(level log.Level) mqtt.Logger {
	return pahoLogger{level: level, entry: log.WithField("component", "mqtt")}
}

func (l pahoLogger) Println(v ...interface{}) {
	l.entry.Log(l.level, fmt.Sprint(v...))
}

func (l pahoLogger) Printf(format string, v ...interface{}) {
	l.entry.Logf(l.level, format, v...)
}
