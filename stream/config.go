package stream

// Config is the MQTT section of the application config.
type Config struct {
	URL      string `yaml:"url" env:"URL"`
	Username string `yaml:"username" env:"USERNAME"`
	Password string `yaml:"password" env:"PASSWORD"`
	Topics   struct {
		Storyboard string `yaml:"storyboard" env:"STORYBOARD"`
		Preview    string `yaml:"preview" env:"PREVIEW"`
		Control    string `yaml:"control" env:"CONTROL"`
	} `yaml:"topics" envPrefix:"TOPIC_"`
}
