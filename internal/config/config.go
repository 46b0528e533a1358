// Package config resolves where promptgen keeps its data and the process
// options read from the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	appDirName       = "promptgen"
	settingsFileName = "settings.json"
)

// Environment variables recognised by Load.
const (
	EnvDataDir = "PROMPTGEN_DATA_DIR"
	EnvAddr    = "PROMPTGEN_ADDR"
	EnvDebug   = "PROMPTGEN_DEBUG"
	EnvNoWatch = "PROMPTGEN_NO_WATCH"
)

// Options holds the process-level configuration.
type Options struct {
	DataDir string // directory holding settings.json
	Addr    string // settings/overlay server listen address
	Debug   bool   // file:line in log output
	Watch   bool   // reload settings.json when edited outside the app
}

// SettingsPath returns the full path to settings.json.
func (o Options) SettingsPath() string {
	return filepath.Join(o.DataDir, settingsFileName)
}

// Dir returns the OS-appropriate application data directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// Load reads options from the environment. A .env file in the working
// directory is applied first; variables already set take precedence.
func Load() (Options, error) {
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] loaded .env")
	}

	opts := Options{
		Addr:  "127.0.0.1:0",
		Watch: true,
	}

	if dir := os.Getenv(EnvDataDir); dir != "" {
		opts.DataDir = dir
	} else {
		dir, err := Dir()
		if err != nil {
			return Options{}, err
		}
		opts.DataDir = dir
	}

	if addr := os.Getenv(EnvAddr); addr != "" {
		opts.Addr = addr
	}

	var err error
	if opts.Debug, err = envBool(EnvDebug, false); err != nil {
		return Options{}, err
	}
	noWatch, err := envBool(EnvNoWatch, false)
	if err != nil {
		return Options{}, err
	}
	opts.Watch = !noWatch

	return opts, nil
}

func envBool(name string, def bool) (bool, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return b, nil
}
