package scene

// ScrollMapping holds the full-scroll extents of the scroll-linked transform.
type ScrollMapping struct {
	Rotation         float64 // Group Y rotation at progress 1
	Depth            float64 // Group Z offset at progress 1
	ParticleRotation float64 // Point cloud Y rotation at progress 1
}

// ScrollTransform is the scroll-derived part of the group and cloud pose.
type ScrollTransform struct {
	GroupRotationY    float64
	GroupDepth        float64
	ParticleRotationY float64
}

// Apply maps progress to a transform. It depends only on p, clamped to
// [0,1].
func (m ScrollMapping) Apply(p float64) ScrollTransform {
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	return ScrollTransform{
		GroupRotationY:    p * m.Rotation,
		GroupDepth:        p * m.Depth,
		ParticleRotationY: p * m.ParticleRotation,
	}
}
