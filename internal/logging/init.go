package logging

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

func Init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	switch {
	case viper.GetBool("debug") || viper.GetBool("verbose"):
		logrus.SetLevel(logrus.DebugLevel)
	case viper.GetString("log_level") != "":
		level, err := logrus.ParseLevel(viper.GetString("log_level"))
		if err != nil {
			logrus.Fatalf("parsing log level: %v", err)
		}
		logrus.SetLevel(level)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}
