// SPDX-License-Identifier: Unlicense OR MIT

// Package gpuid classifies the GPU behind the current context and
// publishes the tunables the other subsystems key off of. It issues no
// GL calls itself: every decision is a pure function of the strings and
// limits handed to Identify.
package gpuid

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/kestrelgl/velocitygl/config"
)

// Vendor is a closed enum over the GPU vendors the library has tuned
// defaults for.
type Vendor int

const (
	VendorUnknown Vendor = iota
	VendorAdreno
	VendorMali
	VendorPowerVR
	VendorXclipse
	VendorNVIDIA
	VendorIntel
)

func (v Vendor) String() string {
	switch v {
	case VendorAdreno:
		return "adreno"
	case VendorMali:
		return "mali"
	case VendorPowerVR:
		return "powervr"
	case VendorXclipse:
		return "xclipse"
	case VendorNVIDIA:
		return "nvidia"
	case VendorIntel:
		return "intel"
	default:
		return "unknown"
	}
}

// Generation is a per-vendor sub-enum. Only the members the tweak
// tables actually branch on are named; everything else collapses to
// GenUnknown.
type Generation int

const (
	GenUnknown Generation = iota
	// Adreno
	GenAdreno6xx
	GenAdreno7xx
	// Mali
	GenMaliBifrost
	GenMaliValhall
	// PowerVR
	GenPowerVRRogue
	// Xclipse / NVIDIA / Intel have a single recognized generation today.
	GenXclipse
	GenNVIDIATuring
	GenIntelXe
)

// Features is a bitset of capabilities detected from the extension
// list and limits. It is reported to callers through gpu.Caps; the
// batcher, the buffer pools and the scaler do not consult it.
type Features uint32

const (
	FeatureCompute Features = 1 << iota
	FeatureGeometry
	FeatureTessellation
	FeatureAnisotropicFilter
	FeatureProgramBinary
	FeatureASTC
	FeatureFramebufferFetch
	FeaturePersistentMappedBuffer
	FeatureTimerQuery
)

func (f Features) Has(bit Features) bool { return f&bit == bit }

// Limits are the integer queries taken at context creation that feed
// into classification and the published Identity.
type Limits struct {
	MaxTextureSize     int
	MaxAnisotropy      float32
	ProgramBinaryCount int
}

// Identity is the immutable record fixed at context creation. Nothing
// in the library mutates it after Identify returns.
type Identity struct {
	Vendor       Vendor
	Generation   Generation
	Model        int
	Tier         int
	Features     Features
	RendererStr  string
	VersionStr   string
	CacheKey     uint64
}

var vendorTable = []struct {
	needle string
	vendor Vendor
}{
	{"qualcomm", VendorAdreno},
	{"adreno", VendorAdreno},
	{"arm", VendorMali},
	{"mali", VendorMali},
	{"imagination", VendorPowerVR},
	{"powervr", VendorPowerVR},
	{"samsung", VendorXclipse},
	{"xclipse", VendorXclipse},
	{"nvidia", VendorNVIDIA},
	{"intel", VendorIntel},
}

var modelRE = regexp.MustCompile(`\d+`)

// Identify classifies the device from the strings and limits the
// caller queried right after context creation.
func Identify(vendorStr, rendererStr, versionStr string, limits Limits, extensions []string) Identity {
	haystack := strings.ToLower(vendorStr + " " + rendererStr)
	vendor := VendorUnknown
	for _, row := range vendorTable {
		if strings.Contains(haystack, row.needle) {
			vendor = row.vendor
			break
		}
	}

	model := 0
	if m := modelRE.FindString(rendererStr); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			model = n
		}
	}

	gen := classifyGeneration(vendor, model, extensions)
	feats := classifyFeatures(vendor, extensions, limits)
	tier := classifyTier(vendor, model)

	id := Identity{
		Vendor:      vendor,
		Generation:  gen,
		Model:       model,
		Tier:        tier,
		Features:    feats,
		RendererStr: rendererStr,
		VersionStr:  versionStr,
	}
	id.CacheKey = cacheKey(vendorStr, versionStr)
	return id
}

func classifyGeneration(vendor Vendor, model int, extensions []string) Generation {
	switch vendor {
	case VendorAdreno:
		switch {
		case model >= 700:
			return GenAdreno7xx
		case model >= 600:
			return GenAdreno6xx
		}
	case VendorMali:
		if hasExtension(extensions, "GL_ARM_shader_framebuffer_fetch") {
			return GenMaliValhall
		}
		return GenMaliBifrost
	case VendorPowerVR:
		return GenPowerVRRogue
	case VendorXclipse:
		return GenXclipse
	case VendorNVIDIA:
		return GenNVIDIATuring
	case VendorIntel:
		return GenIntelXe
	}
	return GenUnknown
}

func classifyFeatures(vendor Vendor, extensions []string, limits Limits) Features {
	var f Features
	if hasExtension(extensions, "GL_EXT_disjoint_timer_query") || hasExtension(extensions, "GL_EXT_disjoint_timer_query_webgl2") {
		f |= FeatureTimerQuery
	}
	if limits.MaxAnisotropy > 1 {
		f |= FeatureAnisotropicFilter
	}
	if limits.ProgramBinaryCount > 0 {
		f |= FeatureProgramBinary
	}
	if hasExtension(extensions, "GL_OES_texture_compression_astc") || hasExtension(extensions, "GL_KHR_texture_compression_astc_ldr") {
		f |= FeatureASTC
	}
	if hasExtension(extensions, "GL_EXT_shader_framebuffer_fetch") || hasExtension(extensions, "GL_ARM_shader_framebuffer_fetch") {
		f |= FeatureFramebufferFetch
	}
	if hasExtension(extensions, "GL_EXT_buffer_storage") {
		f |= FeaturePersistentMappedBuffer
	}
	if hasExtension(extensions, "GL_EXT_geometry_shader") || hasExtension(extensions, "GL_OES_geometry_shader") {
		f |= FeatureGeometry
	}
	if hasExtension(extensions, "GL_EXT_tessellation_shader") || hasExtension(extensions, "GL_OES_tessellation_shader") {
		f |= FeatureTessellation
	}
	if hasExtension(extensions, "GL_ARB_compute_shader") || hasExtension(extensions, "GL_ANDROID_extension_pack_es31a") {
		f |= FeatureCompute
	}
	return f
}

// classifyTier implements the lookup spec.md §4.A names explicitly:
// "adreno >= 730 => 5; mali-G710+ => 4; unknown => 2", generalized to
// a full table across the vendor set.
func classifyTier(vendor Vendor, model int) int {
	switch vendor {
	case VendorAdreno:
		switch {
		case model >= 730:
			return 5
		case model >= 660:
			return 4
		case model >= 610:
			return 3
		default:
			return 2
		}
	case VendorMali:
		switch {
		case model >= 710:
			return 4
		case model >= 610:
			return 3
		default:
			return 2
		}
	case VendorXclipse:
		return 4
	case VendorPowerVR:
		switch {
		case model >= 9:
			return 3
		default:
			return 2
		}
	case VendorNVIDIA:
		return 5
	case VendorIntel:
		return 3
	default:
		return 2
	}
}

func hasExtension(exts []string, name string) bool {
	for _, e := range exts {
		if e == name {
			return true
		}
	}
	return false
}

// cacheKey combines a hash of the vendor string with a hash of the
// driver-version string into the 64-bit key spec.md §3 calls for:
// "vendor hash + driver-version hash combine into a 64-bit cache key".
func cacheKey(vendorStr, versionStr string) uint64 {
	vh := xxhash.Sum64String(vendorStr)
	dh := xxhash.Sum64String(versionStr)
	return vh ^ (dh * 31)
}

// RecommendedConfig projects the identity's tier onto the shared
// per-tier defaults table in package config.
func (id Identity) RecommendedConfig() config.Config {
	return config.RecommendedFor(id.Tier)
}

// VendorTweaks is the closed sum type spec.md §9 asks for: per-vendor
// "apply tweaks" dispatch by tagged variant, not method override.
type VendorTweaks struct {
	// RebindTextureUnitZero works around an Adreno driver quirk where
	// texture unit 0 must be explicitly rebound after a framebuffer
	// change or later sampler state silently reuses the stale bind.
	RebindTextureUnitZero bool
	// PreferEarlyZ hints to skip additional depth-prepass work on Mali
	// parts, which already do early-Z culling in the tile pipeline.
	PreferEarlyZ bool
	// AvoidUnpackAlignmentOne works around a PowerVR Rogue texture
	// upload path that is dramatically slower with an UNPACK_ALIGNMENT
	// of 1 than with the GL default of 4.
	AvoidUnpackAlignmentOne bool
}

// TweaksFor returns the vendor-specific workaround set for id. Ported
// from the original native/src/gpu/{adreno,mali}_tweaks.c dispatch,
// which branched on the same vendor enum rather than a virtual method.
func TweaksFor(id Identity) VendorTweaks {
	switch id.Vendor {
	case VendorAdreno:
		return VendorTweaks{RebindTextureUnitZero: true}
	case VendorMali:
		return VendorTweaks{PreferEarlyZ: true}
	case VendorPowerVR:
		return VendorTweaks{AvoidUnpackAlignmentOne: true}
	default:
		return VendorTweaks{}
	}
}
