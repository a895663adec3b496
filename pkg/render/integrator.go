package render

import (
	"math"

	"raytracer/pkg/accel"
	"raytracer/pkg/color"
	"raytracer/pkg/config"
	"raytracer/pkg/math3d"
	"raytracer/pkg/models"
	"raytracer/pkg/scene"
)

// Shade evaluates the recursive ray->color function for a hit: diffuse
// lighting (direct plus hemispheric bounces), mirror reflection,
// dielectric refraction with Fresnel mixing, textured surfaces, and
// shadow/occlusion queries. depth counts bounces already taken; at
// opts.MaxRayDepth it returns the background color unconditionally.
func Shade(acc *accel.Accelerator, scn *scene.Scene, hit accel.HitRecord, depth int, opts config.Options, rng *RNG) color.Color {
	if depth == opts.MaxRayDepth {
		return scn.Settings.Background
	}

	mesh := scn.Meshes[hit.MeshIndex]
	mat := scn.Material(mesh.MaterialIndex)

	switch mat.Kind {
	case models.MaterialDiffuse:
		return shadeDiffuse(acc, scn, hit, mat, depth, opts, rng)
	case models.MaterialTextured:
		return shadeTextured(acc, scn, hit, mat, opts)
	case models.MaterialReflective:
		return shadeReflective(acc, scn, hit, depth, opts, rng)
	case models.MaterialRefractive:
		return shadeRefractive(acc, scn, hit, mat, depth, opts, rng)
	case models.MaterialConstant:
		return mat.Albedo
	default:
		panic("render: unreachable material kind")
	}
}

// shadeDiffuse implements the diffuse material: optional cosine-
// unweighted hemispheric bounces plus direct lighting from every scene
// light, both accumulated into one sum and normalized by
// (diffuse bounce count + 1).
func shadeDiffuse(acc *accel.Accelerator, scn *scene.Scene, hit accel.HitRecord, mat models.Material, depth int, opts config.Options, rng *RNG) color.Color {
	final := color.Black()

	for i := 0; i < opts.DiffuseReflectionRayCount; i++ {
		rightAxis := hit.Ray.Direction.Cross(hit.ShadingNormal).Normalize()
		upAxis := hit.ShadingNormal
		forwardAxis := rightAxis.Cross(upAxis)

		dir := hemisphereSample(rightAxis, upAxis, forwardAxis, rng)
		origin := hit.Position.Add(hit.ShadingNormal.Scale(opts.ReflectionBias))
		bounceRay := math3d.NewRay(origin, dir)

		bounceHit, ok := acc.Trace(bounceRay, false, math.Inf(1), opts.Epsilon)
		if !ok {
			continue
		}
		final = final.Add(Shade(acc, scn, bounceHit, depth+1, opts, rng))
	}

	for _, light := range scn.Lights {
		lightVec := light.Position.Sub(hit.Position)
		radius := lightVec.Len()
		area := 4 * math.Pi * radius * radius
		lightDir := lightVec.Normalize()

		normal := hit.FaceNormal
		if mat.SmoothShading {
			normal = hit.ShadingNormal
		}
		cosine := math.Max(0, lightDir.Dot(normal))

		shadowRay := math3d.NewRay(hit.Position.Add(lightDir.Scale(opts.ShadowBias)), lightDir)
		if IsOccluded(acc, scn, shadowRay, radius, opts) {
			continue
		}

		final = final.Add(light.Intensity.Scale(cosine / area).Mul(mat.Albedo))
	}

	return final.Scale(1 / float64(opts.DiffuseReflectionRayCount+1))
}

// shadeTextured is identical to the diffuse direct-lighting term except
// the per-light albedo is replaced by the named texture's sampled
// value; it never applies hemispheric bounces.
func shadeTextured(acc *accel.Accelerator, scn *scene.Scene, hit accel.HitRecord, mat models.Material, opts config.Options) color.Color {
	final := color.Black()

	tex, ok := scn.Texture(mat.TextureName)
	if !ok {
		return final
	}
	sampled := tex.Sample(hit.U, hit.V, hit.UV)

	for _, light := range scn.Lights {
		lightVec := light.Position.Sub(hit.Position)
		radius := lightVec.Len()
		area := 4 * math.Pi * radius * radius
		lightDir := lightVec.Normalize()

		normal := hit.FaceNormal
		if mat.SmoothShading {
			normal = hit.ShadingNormal
		}
		cosine := math.Max(0, lightDir.Dot(normal))

		shadowRay := math3d.NewRay(hit.Position.Add(lightDir.Scale(opts.ShadowBias)), lightDir)
		if IsOccluded(acc, scn, shadowRay, radius, opts) {
			continue
		}

		final = final.Add(light.Intensity.Scale(cosine / area).Mul(sampled))
	}

	return final
}

// shadeReflective mirrors the incoming direction about the shading
// normal (the reflective variant's SmoothShading flag plays no part in
// the reflection geometry) and recurses; a miss returns the background
// color.
func shadeReflective(acc *accel.Accelerator, scn *scene.Scene, hit accel.HitRecord, depth int, opts config.Options, rng *RNG) color.Color {
	n := hit.ShadingNormal
	r := reflect(hit.Ray.Direction, n)

	origin := hit.Position.Add(r.Scale(opts.ReflectionBias))
	ray := math3d.NewRay(origin, r)

	bounceHit, ok := acc.Trace(ray, false, math.Inf(1), opts.Epsilon)
	if !ok {
		return scn.Settings.Background
	}
	return Shade(acc, scn, bounceHit, depth+1, opts, rng)
}

// shadeRefractive implements dielectric transmission: total internal
// reflection falls back to the mirrored ray; otherwise reflection and
// refraction are both traced and combined with a Schlick-style Fresnel
// mix. A missing reflection or refraction ray contributes black rather
// than aborting the mix.
func shadeRefractive(acc *accel.Accelerator, scn *scene.Scene, hit accel.HitRecord, mat models.Material, depth int, opts config.Options, rng *RNG) color.Color {
	n := hit.ShadingNormal
	if !mat.SmoothShading {
		n = hit.FaceNormal
	}
	n = n.Normalize()
	d := hit.Ray.Direction.Normalize()

	etaI, etaR := 1.0, mat.IOR
	if d.Dot(n) > 0 {
		etaI, etaR = etaR, etaI
		n = n.Negate()
	}

	cosI := -d.Dot(n)
	sinI := math.Sqrt(math.Max(0, 1-cosI*cosI))

	if etaR/etaI < sinI {
		r := reflect(d, n)
		origin := hit.Position.Add(r.Scale(opts.ReflectionBias))
		ray := math3d.NewRay(origin, r)

		bounceHit, ok := acc.Trace(ray, false, math.Inf(1), opts.Epsilon)
		if !ok {
			return color.Black()
		}
		return Shade(acc, scn, bounceHit, depth+1, opts, rng)
	}

	sinR := sinI * etaI / etaR
	cosR := math.Sqrt(math.Max(0, 1-sinR*sinR))
	refractionDir := n.Negate().Scale(cosR).Add(d.Add(n.Scale(cosI)).Normalize().Scale(sinR))

	refractionColor := color.Black()
	refractionOrigin := hit.Position.Add(refractionDir.Scale(opts.RefractionBias))
	refractionRay := math3d.NewRay(refractionOrigin, refractionDir)
	if refractionHit, ok := acc.Trace(refractionRay, false, math.Inf(1), opts.Epsilon); ok {
		refractionColor = Shade(acc, scn, refractionHit, depth+1, opts, rng)
	}

	reflectionDir := reflect(d, n)
	reflectionColor := color.Black()
	reflectionOrigin := hit.Position.Add(reflectionDir.Scale(opts.ReflectionBias))
	reflectionRay := math3d.NewRay(reflectionOrigin, reflectionDir)
	if reflectionHit, ok := acc.Trace(reflectionRay, false, math.Inf(1), opts.Epsilon); ok {
		reflectionColor = Shade(acc, scn, reflectionHit, depth+1, opts, rng)
	}

	fresnel := 0.5 * math.Pow(1+d.Dot(n), 5)
	return reflectionColor.Scale(fresnel).Add(refractionColor.Scale(1 - fresnel))
}

// reflect mirrors direction d about normal n: d - 2*(d.n)*n.
func reflect(d, n math3d.Vec3) math3d.Vec3 {
	return d.Sub(n.Scale(2 * d.Dot(n)))
}

// hemisphereSample draws a cosine-unweighted direction on the upper
// hemisphere of the (right, up, forward) basis: a polar angle in
// [0, pi] keeps the up-component non-negative, and an independent
// azimuth in [0, 2*pi] rotates around the up axis.
func hemisphereSample(right, up, forward math3d.Vec3, rng *RNG) math3d.Vec3 {
	polar := math.Pi * rng.Float64()
	x, y := math.Cos(polar), math.Sin(polar)

	azimuth := 2 * math.Pi * rng.Float64()
	cosAz, sinAz := math.Cos(azimuth), math.Sin(azimuth)

	localX := cosAz * x
	localY := y
	localZ := sinAz * x

	return right.Scale(localX).Add(up.Scale(localY)).Add(forward.Scale(localZ))
}

// IsOccluded walks an any-hit query from ray up to distance maxT,
// skipping past transmissive surfaces by advancing the ray origin and
// decrementing maxT by each such hit's distance, terminating once
// maxT <= 0.
func IsOccluded(acc *accel.Accelerator, scn *scene.Scene, ray math3d.Ray, maxT float64, opts config.Options) bool {
	for maxT > 0 {
		hit, ok := acc.Trace(ray, false, maxT, opts.Epsilon)
		if !ok {
			return false
		}

		mesh := scn.Meshes[hit.MeshIndex]
		mat := scn.Material(mesh.MaterialIndex)
		if !mat.IsTransmissive() {
			return true
		}

		ray = math3d.NewRay(hit.Position.Add(ray.Direction.Scale(opts.ShadowBias)), ray.Direction)
		maxT -= hit.T
	}
	return false
}
