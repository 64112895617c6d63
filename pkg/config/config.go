// Package config defines the engine's startup configuration value struct
// and its loader. Conf is read once at startup by the hosting binary and
// handed to the subsystems that need it (clock, mixer handler, channel
// manager); nothing here runs on the audio thread.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ResampleQuality selects the wave reader's interpolation algorithm.
type ResampleQuality int

const (
	ResampleLinear ResampleQuality = iota
	ResampleCubic
	ResampleSinc
)

// Conf is the engine's configuration (§6). All fields are value types so
// the struct can be copied freely and embedded in a Patch.
type Conf struct {
	SampleRate          int             `yaml:"sample_rate"`
	BufferSize          int             `yaml:"buffer_size"`
	RsmpQuality         ResampleQuality `yaml:"resample_quality"`
	TreatRecsAsLoops    bool            `yaml:"treat_recs_as_loops"`
	ChansStopOnSeqHalt  bool            `yaml:"chans_stop_on_seq_halt"`
	ResizeRecordings    bool            `yaml:"resize_recordings"`
	MaxDispatcherEvents int             `yaml:"max_dispatcher_events"`
}

// Default returns the engine's built-in defaults, used when no file is
// present and no environment overrides apply.
func Default() Conf {
	return Conf{
		SampleRate:          44100,
		BufferSize:          512,
		RsmpQuality:         ResampleLinear,
		TreatRecsAsLoops:    true,
		ChansStopOnSeqHalt:  true,
		ResizeRecordings:    true,
		MaxDispatcherEvents: 256,
	}
}

// Load reads defaults, overlays a YAML file at path (if it exists), then
// overlays environment variables loaded via a .env file (if present) plus
// the process environment. Precedence, low to high: built-in defaults,
// YAML file, environment.
func Load(path string) (Conf, error) {
	conf := Default()

	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if uerr := yaml.Unmarshal(data, &conf); uerr != nil {
				return Conf{}, uerr
			}
		} else if !os.IsNotExist(err) {
			return Conf{}, err
		}
	}

	// Ignore a missing .env; it's an optional local override file.
	_ = godotenv.Load()

	applyEnvOverrides(&conf)
	return conf, nil
}

func applyEnvOverrides(c *Conf) {
	if v, ok := os.LookupEnv("GIADA_SAMPLE_RATE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.SampleRate = n
		}
	}
	if v, ok := os.LookupEnv("GIADA_BUFFER_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.BufferSize = n
		}
	}
	if v, ok := os.LookupEnv("GIADA_TREAT_RECS_AS_LOOPS"); ok {
		c.TreatRecsAsLoops = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("GIADA_CHANS_STOP_ON_SEQ_HALT"); ok {
		c.ChansStopOnSeqHalt = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("GIADA_RESIZE_RECORDINGS"); ok {
		c.ResizeRecordings = v == "1" || v == "true"
	}
}
