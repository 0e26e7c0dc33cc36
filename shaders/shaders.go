package shaders

import (
	_ "embed"
)

//go:embed circle.wgsl
var CircleWGSL string

//go:embed quad.wgsl
var QuadWGSL string
