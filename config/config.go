// SPDX-License-Identifier: Unlicense OR MIT

// Package config holds the closed set of tunables the runtime is
// configured with. The config file reader and its watcher are external
// collaborators (host-owned JSON); this package owns only the struct
// shape, the enumerations, and the per-tier defaults.
package config

// QualityPreset selects a bundle of defaults for the other fields.
// Custom means the caller has overridden individual fields and the
// preset itself carries no further meaning.
type QualityPreset int

const (
	PresetUltraLow QualityPreset = iota
	PresetLow
	PresetMedium
	PresetHigh
	PresetUltra
	PresetCustom
)

func (p QualityPreset) String() string {
	switch p {
	case PresetUltraLow:
		return "ultra-low"
	case PresetLow:
		return "low"
	case PresetMedium:
		return "medium"
	case PresetHigh:
		return "high"
	case PresetUltra:
		return "ultra"
	case PresetCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ShaderCacheMode controls whether linked program binaries are cached
// and where.
type ShaderCacheMode int

const (
	ShaderCacheDisabled ShaderCacheMode = iota
	ShaderCacheMemoryOnly
	ShaderCacheDisk
	ShaderCacheAggressive
)

// Backend selects the rendering backend the context is bound to. The
// library only implements GLES, but the field is carried as a closed
// enum because host configs name it explicitly.
type Backend int

const (
	BackendGLES Backend = iota
	BackendAuto
)

// Config is the full tunable surface described by spec.md §6. Every
// field has a defined default per quality preset; see Defaults and
// RecommendedFor.
type Config struct {
	QualityPreset QualityPreset `json:"qualityPreset"`
	Backend       Backend       `json:"backend"`

	ShaderCacheMode     ShaderCacheMode `json:"shaderCacheMode"`
	ShaderCachePath     string          `json:"shaderCachePath"`
	ShaderCacheMaxBytes int64           `json:"shaderCacheMaxBytes"`
	ShaderCacheMaxEntries int           `json:"shaderCacheMaxEntries"`

	DynamicResolutionEnabled bool    `json:"dynamicResolutionEnabled"`
	MinScale                 float32 `json:"minScale"`
	MaxScale                 float32 `json:"maxScale"`
	TargetFPS                float32 `json:"targetFps"`
	SharpeningEnabled        bool    `json:"sharpeningEnabled"`
	SharpeningAmount         float32 `json:"sharpeningAmount"`

	DrawBatchingEnabled bool `json:"drawBatchingEnabled"`
	InstancingEnabled   bool `json:"instancingEnabled"`
	MaxBatchSize        int  `json:"maxBatchSize"`
	MinBatchSize        int  `json:"minBatchSize"`

	TexturePoolMB     int `json:"texturePoolMb"`
	MaxTextureSize    int `json:"maxTextureSize"`
	BufferPoolMB      int `json:"bufferPoolMb"`
	PersistentMapping bool `json:"persistentMappingEnabled"`

	GPUSpecificTweaksEnabled bool `json:"gpuSpecificTweaksEnabled"`
	DebugOutput              bool `json:"debugOutput"`
	ProfilingEnabled         bool `json:"profilingEnabled"`

	// ForceCompatibilityMode is parsed but not read anywhere in the
	// runtime. Reserved per the Open Question it was flagged under.
	ForceCompatibilityMode bool `json:"forceCompatibilityMode"`
}

// Default returns the medium-tier defaults, matching InitDefault's
// behaviour.
func Default() Config {
	return RecommendedFor(3)
}

// RecommendedFor returns the default tunables for a performance tier
// 1-5, clamped into range. Values follow spec.md §4.A's tier table:
// higher tiers get bigger batches, bigger pools, higher starting
// resolution scale and a higher target frame rate.
func RecommendedFor(tier int) Config {
	if tier < 1 {
		tier = 1
	}
	if tier > 5 {
		tier = 5
	}
	cfg := Config{
		Backend:                  BackendGLES,
		ShaderCacheMode:          ShaderCacheDisk,
		ShaderCacheMaxBytes:      32 << 20,
		ShaderCacheMaxEntries:    512,
		DynamicResolutionEnabled: true,
		MinScale:                 0.5,
		SharpeningEnabled:        true,
		SharpeningAmount:         0.4,
		DrawBatchingEnabled:      true,
		MinBatchSize:             2,
		MaxTextureSize:           4096,
		PersistentMapping:        true,
		GPUSpecificTweaksEnabled: true,
	}
	switch tier {
	case 1:
		cfg.QualityPreset = PresetUltraLow
		cfg.MaxScale = 0.75
		cfg.TargetFPS = 30
		cfg.DrawBatchingEnabled = false
		cfg.InstancingEnabled = false
		cfg.MaxBatchSize = 256
		cfg.TexturePoolMB = 64
		cfg.BufferPoolMB = 16
	case 2:
		cfg.QualityPreset = PresetLow
		cfg.MaxScale = 0.85
		cfg.TargetFPS = 30
		cfg.InstancingEnabled = false
		cfg.MaxBatchSize = 512
		cfg.TexturePoolMB = 128
		cfg.BufferPoolMB = 32
	case 3:
		cfg.QualityPreset = PresetMedium
		cfg.MaxScale = 1.0
		cfg.TargetFPS = 45
		cfg.InstancingEnabled = true
		cfg.MaxBatchSize = 1024
		cfg.TexturePoolMB = 256
		cfg.BufferPoolMB = 64
	case 4:
		cfg.QualityPreset = PresetHigh
		cfg.MaxScale = 1.0
		cfg.TargetFPS = 60
		cfg.InstancingEnabled = true
		cfg.MaxBatchSize = 2048
		cfg.TexturePoolMB = 384
		cfg.BufferPoolMB = 96
	case 5:
		cfg.QualityPreset = PresetUltra
		cfg.MaxScale = 1.0
		cfg.TargetFPS = 60
		cfg.InstancingEnabled = true
		cfg.MaxBatchSize = 4096
		cfg.TexturePoolMB = 512
		cfg.BufferPoolMB = 128
	}
	return cfg
}
