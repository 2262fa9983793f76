package model

import "fmt"

// ComputeTangents derives a tangent and bitangent per triangle from positions and
// texture coordinates and assigns them to all three corners.
// Degenerate UV deltas yield Inf/NaN and are left as is.
func ComputeTangents(vertices []Vertex) error {
	if len(vertices)%3 != 0 {
		return fmt.Errorf("%w: %d vertices", ErrNotTriangleList, len(vertices))
	}

	for i := 0; i < len(vertices); i += 3 {
		v1, v2, v3 := &vertices[i], &vertices[i+1], &vertices[i+2]

		dp1 := v2.Position.Sub(v1.Position)
		dp2 := v3.Position.Sub(v1.Position)
		duv1 := v2.TexCoord.Sub(v1.TexCoord)
		duv2 := v3.TexCoord.Sub(v1.TexCoord)

		r := 1 / (duv1.X()*duv2.Y() - duv1.Y()*duv2.X())
		tangent := dp1.Mul(duv2.Y()).Sub(dp2.Mul(duv1.Y())).Mul(r)
		bitangent := dp2.Mul(duv1.X()).Sub(dp1.Mul(duv2.X())).Mul(r)

		for _, v := range []*Vertex{v1, v2, v3} {
			v.Tangent = tangent
			v.Bitangent = bitangent
		}
	}
	return nil
}
