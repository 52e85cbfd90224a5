package logger

import "log/slog"

type Backend string

const (
	BackendStd Backend = "std" // text handler on stdout
	BackendZap Backend = "zap" // zap JSON core behind slog
)

type Config struct {
	// Attributes stamped on every record
	Service    string
	Version    string
	InstanceID string

	// Output control
	Level   slog.Level
	Env     Env
	Backend Backend
	Debug   bool

	// Zap sampling under log bursts
	SampleInitial    int
	SampleThereafter int
	SampleTick       int

	AddSource bool
}
