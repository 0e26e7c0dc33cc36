package core

// GPU-facing record types. Field order and the blank padding fields
// reproduce the WGSL struct layouts exactly, so slices of these can be
// uploaded to storage buffers byte for byte. vec3 fields align to 16
// bytes in WGSL, hence the padding.

// CameraUniform matches the WGSL Camera uniform (16 bytes). Position is
// the world-space view center, VerticalHeight the world-space vertical
// extent of the viewport, Aspect the viewport width/height ratio.
type CameraUniform struct {
	Position       [2]float32
	VerticalHeight float32
	Aspect         float32
}

// CircleInstance matches the WGSL Circle storage record (32 bytes).
// Position.Z is the depth key mapped to 1 - z by the camera transform.
type CircleInstance struct {
	Position [3]float32
	_        float32
	Color    [3]float32
	Radius   float32
}

// QuadInstance matches the WGSL Quad storage record (48 bytes). Size is
// the full width/height before rotation; Rotation is radians.
type QuadInstance struct {
	Position [3]float32
	Rotation float32
	Color    [3]float32
	_        float32
	Size     [2]float32
	_        [2]float32
}
