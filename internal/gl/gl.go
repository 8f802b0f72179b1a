// SPDX-License-Identifier: Unlicense OR MIT

package gl

const (
	ALL_BARRIER_BITS                      = 0xffffffff
	ARRAY_BUFFER                          = 0x8892
	ARRAY_BUFFER_BINDING                  = 0x8894
	BACK                                  = 0x0405
	BLEND                                 = 0xbe2
	BLEND_SRC_RGB                         = 0x80c9
	BLEND_DST_RGB                         = 0x80c8
	BLEND_SRC_ALPHA                       = 0x80cb
	BLEND_DST_ALPHA                       = 0x80ca
	BLEND_EQUATION_RGB                    = 0x8009
	BLEND_EQUATION_ALPHA                  = 0x883d
	BLEND_COLOR                           = 0x8005
	CLAMP_TO_EDGE                         = 0x812f
	COLOR_ATTACHMENT0                     = 0x8ce0
	COLOR_BUFFER_BIT                      = 0x4000
	COLOR_CLEAR_VALUE                     = 0x0c22
	COMPILE_STATUS                        = 0x8b81
	COMPUTE_SHADER                        = 0x91B9
	CULL_FACE                             = 0x0b44
	CULL_FACE_MODE                        = 0x0b45
	CCW                                   = 0x0901
	CW                                    = 0x0900
	DEPTH_BUFFER_BIT                      = 0x100
	DEPTH_ATTACHMENT                      = 0x8d00
	DEPTH_CLEAR_VALUE                     = 0x0b73
	DEPTH_COMPONENT16                     = 0x81a5
	DEPTH_COMPONENT24                     = 0x81A6
	DEPTH_COMPONENT32F                    = 0x8CAC
	DEPTH24_STENCIL8                      = 0x88F0
	DEPTH_STENCIL                         = 0x84F9
	DEPTH_STENCIL_ATTACHMENT              = 0x821A
	UNSIGNED_INT_24_8                     = 0x84FA
	DEPTH_FUNC                            = 0x0b74
	DEPTH_RANGE                           = 0x0b70
	DEPTH_TEST                            = 0xb71
	DEPTH_WRITEMASK                       = 0x0b72
	DRAW_FRAMEBUFFER                      = 0x8CA9
	DST_COLOR                             = 0x306
	DYNAMIC_DRAW                          = 0x88E8
	DYNAMIC_READ                          = 0x88E9
	ELEMENT_ARRAY_BUFFER                  = 0x8893
	ELEMENT_ARRAY_BUFFER_BINDING          = 0x8895
	EQUAL                                 = 0x0202
	EXTENSIONS                            = 0x1f03
	FALSE                                 = 0
	FLOAT                                 = 0x1406
	FRAGMENT_SHADER                       = 0x8b30
	FRAMEBUFFER                           = 0x8d40
	FRAMEBUFFER_ATTACHMENT_COLOR_ENCODING = 0x8210
	FRAMEBUFFER_BINDING                   = 0x8ca6
	FRAMEBUFFER_COMPLETE                  = 0x8cd5
	FRAMEBUFFER_SRGB                      = 0x8db9
	FRONT                                 = 0x0404
	FRONT_AND_BACK                        = 0x0408
	FRONT_FACE                            = 0x0b46
	FUNC_ADD                              = 0x8006
	FUNC_REVERSE_SUBTRACT                 = 0x800b
	FUNC_SUBTRACT                         = 0x800a
	HALF_FLOAT                            = 0x140b
	HALF_FLOAT_OES                        = 0x8d61
	INCR                                  = 0x1e02
	INCR_WRAP                             = 0x8507
	INFO_LOG_LENGTH                       = 0x8B84
	INVALID_INDEX                         = ^uint(0)
	INVERT                                = 0x150a
	KEEP                                  = 0x1e00
	GREATER                               = 0x204
	GEQUAL                                = 0x206
	LEQUAL                                = 0x203
	LESS                                  = 0x201
	LINEAR                                = 0x2601
	LINE_WIDTH                            = 0x0b21
	LINK_STATUS                           = 0x8b82
	LUMINANCE                             = 0x1909
	MAP_READ_BIT                          = 0x0001
	MAP_WRITE_BIT                         = 0x0002
	MAP_PERSISTENT_BIT                    = 0x0040
	MAP_COHERENT_BIT                      = 0x0080
	MAX_TEXTURE_SIZE                      = 0xd33
	NEAREST                               = 0x2600
	NEVER                                 = 0x0200
	NOTEQUAL                              = 0x0205
	NO_ERROR                              = 0x0
	NUM_EXTENSIONS                        = 0x821D
	ONE                                   = 0x1
	ONE_MINUS_SRC_ALPHA                   = 0x303
	PROGRAM_BINARY_LENGTH                 = 0x8741
	QUERY_RESULT                          = 0x8866
	QUERY_RESULT_AVAILABLE                = 0x8867
	R16F                                  = 0x822d
	R8                                    = 0x8229
	READ_FRAMEBUFFER                      = 0x8ca8
	READ_FRAMEBUFFER_BINDING              = 0x8caa
	READ_ONLY                             = 0x88B8
	READ_WRITE                            = 0x88BA
	RED                                   = 0x1903
	RENDERER                              = 0x1F01
	VENDOR                                = 0x1F00
	MAX_TEXTURE_MAX_ANISOTROPY_EXT        = 0x84FF
	RENDERBUFFER                          = 0x8d41
	RENDERBUFFER_BINDING                  = 0x8ca7
	RENDERBUFFER_HEIGHT                   = 0x8d43
	RENDERBUFFER_WIDTH                    = 0x8d42
	REPLACE                               = 0x1e01
	RGB                                   = 0x1907
	RGBA                                  = 0x1908
	RGBA8                                 = 0x8058
	SCISSOR_BOX                           = 0x0c10
	SCISSOR_TEST                          = 0x0c11
	SHADER_STORAGE_BUFFER                 = 0x90D2
	SHADER_STORAGE_BUFFER_BINDING         = 0x90D3
	SHORT                                 = 0x1402
	SYNC_GPU_COMMANDS_COMPLETE            = 0x9117
	TIMEOUT_EXPIRED                       = 0x911B
	CONDITION_SATISFIED                   = 0x911C
	ALREADY_SIGNALED                      = 0x911A
	WAIT_FAILED                           = 0x911D
	SRGB                                  = 0x8c40
	SRGB_ALPHA_EXT                        = 0x8c42
	SRGB8                                 = 0x8c41
	SRGB8_ALPHA8                          = 0x8c43
	STATIC_DRAW                           = 0x88e4
	STENCIL_ATTACHMENT                    = 0x8d20
	STENCIL_BACK_FAIL                     = 0x8801
	STENCIL_BACK_FUNC                     = 0x8800
	STENCIL_BACK_PASS_DEPTH_FAIL          = 0x8802
	STENCIL_BACK_PASS_DEPTH_PASS          = 0x8803
	STENCIL_BACK_REF                      = 0x8ca3
	STENCIL_BACK_VALUE_MASK               = 0x8ca4
	STENCIL_BACK_WRITEMASK                = 0x8ca5
	STENCIL_BUFFER_BIT                    = 0x00000400
	STENCIL_FAIL                          = 0x0b94
	STENCIL_FUNC                          = 0x0b92
	STENCIL_PASS_DEPTH_FAIL               = 0x0b95
	STENCIL_PASS_DEPTH_PASS               = 0x0b96
	STENCIL_REF                           = 0x0b97
	STENCIL_TEST                          = 0x0b90
	STENCIL_VALUE_MASK                    = 0x0b93
	STENCIL_WRITEMASK                     = 0x0b98
	TEXTURE_2D                            = 0xde1
	TEXTURE_3D                            = 0x806f
	TEXTURE_2D_ARRAY                      = 0x8c1a
	TEXTURE_BINDING_2D                    = 0x8069
	TEXTURE_CUBE_MAP                      = 0x8513
	TEXTURE_MAG_FILTER                    = 0x2800
	TEXTURE_MIN_FILTER                    = 0x2801
	TEXTURE_WRAP_S                        = 0x2802
	TEXTURE_WRAP_T                        = 0x2803
	TEXTURE0                              = 0x84c0
	TEXTURE1                              = 0x84c1
	TRIANGLE_STRIP                        = 0x5
	TRIANGLES                             = 0x4
	TRUE                                  = 1
	UNIFORM_BUFFER                        = 0x8A11
	UNIFORM_BUFFER_BINDING                = 0x8A28
	UNPACK_ALIGNMENT                      = 0xcf5
	UNSIGNED_BYTE                         = 0x1401
	UNSIGNED_SHORT                        = 0x1403
	VERSION                               = 0x1f02
	VERTEX_ARRAY_BINDING                  = 0x85b5
	VERTEX_ATTRIB_ARRAY_ENABLED           = 0x8622
	VERTEX_ATTRIB_ARRAY_SIZE              = 0x8623
	VERTEX_ATTRIB_ARRAY_STRIDE            = 0x8624
	VERTEX_ATTRIB_ARRAY_TYPE              = 0x8625
	VERTEX_ATTRIB_ARRAY_NORMALIZED        = 0x886A
	VERTEX_ATTRIB_ARRAY_POINTER           = 0x8645
	VERTEX_SHADER                         = 0x8b31
	VIEWPORT                              = 0x0ba2
	WRITE_ONLY                            = 0x88B9
	ZERO                                  = 0x0

	// EXT_disjoint_timer_query
	TIME_ELAPSED_EXT = 0x88BF
	GPU_DISJOINT_EXT = 0x8FBB

	// ARB_program_binary / OES_get_program_binary
	PROGRAM_BINARY_FORMATS = 0x87FF
	NUM_PROGRAM_BINARY_FORMATS = 0x87FE
)
