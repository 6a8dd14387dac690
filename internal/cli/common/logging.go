package common

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/zeromicro/go-zero/core/logx"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions mirrors the log.* keys of the CLI configuration.
type LogOptions struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// LogOptionsFrom reads log.* keys from v.
func LogOptionsFrom(v *viper.Viper) LogOptions {
	return LogOptions{
		Level:      v.GetString("log.level"),
		Format:     v.GetString("log.format"),
		File:       v.GetString("log.file"),
		MaxSizeMB:  v.GetInt("log.max_size"),
		MaxBackups: v.GetInt("log.max_backups"),
		MaxAgeDays: v.GetInt("log.max_age"),
		Compress:   v.GetBool("log.compress"),
	}
}

// SetupLogger points slog, the std logger and logx at the same writer.
// format: console|json; level: debug|info|warn|error.
// A non-empty File writes to a rotating file instead of stderr.
func SetupLogger(o LogOptions) {
	var w io.Writer = os.Stderr
	if strings.TrimSpace(o.File) != "" {
		w = &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    o.MaxSizeMB,
			MaxBackups: o.MaxBackups,
			MaxAge:     o.MaxAgeDays,
			Compress:   o.Compress,
		}
	}

	lvl, zl := slog.LevelInfo, uint32(logx.InfoLevel)
	switch strings.ToLower(o.Level) {
	case "debug":
		lvl, zl = slog.LevelDebug, logx.DebugLevel
	case "warn":
		lvl, zl = slog.LevelWarn, logx.ErrorLevel
	case "error":
		lvl, zl = slog.LevelError, logx.ErrorLevel
	}
	opts := &slog.HandlerOptions{Level: lvl}
	json := strings.ToLower(o.Format) == "json"
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(h))

	if json {
		log.SetFlags(0)
	} else {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	}
	log.SetOutput(w)

	encoding := "plain"
	if json {
		encoding = "json"
	}
	logx.MustSetup(logx.LogConf{ServiceName: "agentdeck-cli", Mode: "console", Encoding: encoding})
	logx.DisableStat()
	logx.SetWriter(logx.NewWriter(w))
	logx.SetLevel(zl)
}
