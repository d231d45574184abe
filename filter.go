package sprig

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// --- Kage shader sources ---
// All shaders use //kage:unit pixels as required by Ebitengine.
// Ebitengine uses premultiplied alpha; shaders un-premultiply before processing
// and re-premultiply output.

const gammaShaderSrc = `//kage:unit pixels
package main

var Gamma float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a == 0 {
		return vec4(0)
	}
	c.rgb /= c.a
	c.rgb = pow(clamp(c.rgb, 0, 1), vec3(1/Gamma))
	return vec4(c.rgb*c.a, c.a)
}
`

const colorMatrixShaderSrc = `//kage:unit pixels
package main

var Matrix [20]float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	// Un-premultiply alpha.
	if c.a > 0 {
		c.rgb /= c.a
	}
	// Apply 4x5 color matrix (row-major, offset in elements 4,9,14,19).
	r := Matrix[0]*c.r + Matrix[1]*c.g + Matrix[2]*c.b + Matrix[3]*c.a + Matrix[4]
	g := Matrix[5]*c.r + Matrix[6]*c.g + Matrix[7]*c.b + Matrix[8]*c.a + Matrix[9]
	b := Matrix[10]*c.r + Matrix[11]*c.g + Matrix[12]*c.b + Matrix[13]*c.a + Matrix[14]
	a := Matrix[15]*c.r + Matrix[16]*c.g + Matrix[17]*c.b + Matrix[18]*c.a + Matrix[19]
	r = clamp(r, 0, 1)
	g = clamp(g, 0, 1)
	b = clamp(b, 0, 1)
	a = clamp(a, 0, 1)
	return vec4(r*a, g*a, b*a, a)
}
`

var (
	gammaShader       *ebiten.Shader
	colorMatrixShader *ebiten.Shader
)

func ensureGammaShader() *ebiten.Shader {
	if gammaShader == nil {
		s, err := ebiten.NewShader([]byte(gammaShaderSrc))
		if err != nil {
			panic("sprig: failed to compile gamma shader: " + err.Error())
		}
		gammaShader = s
	}
	return gammaShader
}

func ensureColorMatrixShader() *ebiten.Shader {
	if colorMatrixShader == nil {
		s, err := ebiten.NewShader([]byte(colorMatrixShaderSrc))
		if err != nil {
			panic("sprig: failed to compile color matrix shader: " + err.Error())
		}
		colorMatrixShader = s
	}
	return colorMatrixShader
}

// applyGamma renders src into dst with channels raised to 1/gamma.
func applyGamma(src, dst *ebiten.Image, gamma float64) {
	b := src.Bounds()
	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = src
	op.Uniforms = map[string]any{"Gamma": float32(gamma)}
	dst.DrawRectShader(b.Dx(), b.Dy(), ensureGammaShader(), op)
}

// ColorMatrix is a 4x5 row-major color matrix: [R_r, R_g, R_b, R_a, R_offset, G_r, ...].
// It is a Transformation for effects the fixed ones do not cover.
type ColorMatrix [20]float64

// IdentityColorMatrix leaves colors untouched.
func IdentityColorMatrix() ColorMatrix {
	var m ColorMatrix
	m[0], m[6], m[12], m[18] = 1, 1, 1, 1
	return m
}

// SepiaColorMatrix tints toward brown.
func SepiaColorMatrix() ColorMatrix {
	return ColorMatrix{
		0.393, 0.769, 0.189, 0, 0,
		0.349, 0.686, 0.168, 0, 0,
		0.272, 0.534, 0.131, 0, 0,
		0, 0, 0, 1, 0,
	}
}

func (m ColorMatrix) Apply(f Frames) Frames {
	var m32 [20]float32
	for i, v := range m {
		m32[i] = float32(v)
	}
	uniforms := map[string]any{"Matrix": m32[:]}
	return mapImages(f, func(img *ebiten.Image) *ebiten.Image {
		src := copyImage(img)
		b := src.Bounds()
		dst := newImage(b.Dx(), b.Dy())
		op := &ebiten.DrawRectShaderOptions{Uniforms: uniforms}
		op.Images[0] = src
		dst.DrawRectShader(b.Dx(), b.Dy(), ensureColorMatrixShader(), op)
		return dst
	})
}
