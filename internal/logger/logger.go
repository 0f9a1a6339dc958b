package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Setup はlogrusの標準ロガーを設定する。
// 本番はJSON、それ以外はテキスト。
func Setup(level string, production bool) error {
	return configure(logrus.StandardLogger(), os.Stdout, level, production)
}

func configure(l *logrus.Logger, out io.Writer, level string, production bool) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}

	l.SetOutput(out)
	l.SetLevel(lvl)
	if production {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
