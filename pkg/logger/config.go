package logger

import "log/slog"

type Backend string

const (
	BackendStd Backend = "std" // text handler; удобен в dev
	BackendZap Backend = "zap" // zap core через slog-zap
)

type Config struct {
	// Метаданные сервиса
	Service    string
	Version    string
	InstanceID string

	// Управление выводом
	Level   slog.Level
	Env     Env
	Backend Backend // default: zap для prod, std для dev
	Debug   bool

	// Zap sampling
	SampleInitial    int
	SampleThereafter int

	AddSource bool
}
