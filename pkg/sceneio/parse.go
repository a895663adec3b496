// Package sceneio holds the renderer's I/O collaborators: the JSON
// scene-file parser, the bitmap loader, the optional glTF mesh loader,
// and the PPM image writer. It exists only to produce a
// pkg/scene.Scene for the renderer to consume and to serialize a
// pkg/render.Image back out.
package sceneio

import (
	"encoding/json"
	"fmt"
	"os"

	"raytracer/pkg/color"
	"raytracer/pkg/math3d"
	"raytracer/pkg/models"
	"raytracer/pkg/scene"
)

// jsonScene mirrors the scene file's top-level shape. Fields are left
// as json.RawMessage where the tagged-variant `type` discriminator
// must be inspected before the payload can be decoded.
type jsonScene struct {
	Settings  jsonSettings      `json:"settings"`
	Camera    jsonCamera        `json:"camera"`
	Lights    []jsonLight       `json:"lights"`
	Textures  []json.RawMessage `json:"textures"`
	Materials []json.RawMessage `json:"materials"`
	Objects   []jsonObject      `json:"objects"`
}

type jsonSettings struct {
	BackgroundColor [3]float64 `json:"background_color"`
	ImageSettings   struct {
		Width      int  `json:"width"`
		Height     int  `json:"height"`
		BucketSize *int `json:"bucket_size"`
	} `json:"image_settings"`
}

type jsonCamera struct {
	Position [3]float64 `json:"position"`
	Matrix   [9]float64 `json:"matrix"`
}

type jsonLight struct {
	Position  [3]float64 `json:"position"`
	Intensity [3]float64 `json:"intensity"`
}

// jsonObject is one scene object: either inline flat vertex/uv/triangle
// buffers, or a gltf_file path whose triangle primitives are loaded in
// place of them.
type jsonObject struct {
	MaterialIndex int       `json:"material_index"`
	GLTFFile      string    `json:"gltf_file"`
	Vertices      []float64 `json:"vertices"`
	UVs           []float64 `json:"uvs"`
	Triangles     []int     `json:"triangles"`
}

// ParseError names the offending scene-file field so that callers see
// a structured failure rather than an opaque message.
type ParseError struct {
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sceneio: parse %s: %v", e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseFile reads and decodes the scene file at path into a
// pkg/scene.Scene, ready for accel.Build and render.Render.
func ParseFile(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sceneio: read scene file %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a scene file's JSON bytes into a pkg/scene.Scene.
func Parse(data []byte) (*scene.Scene, error) {
	var js jsonScene
	if err := json.Unmarshal(data, &js); err != nil {
		return nil, &ParseError{Field: "<root>", Err: err}
	}

	bucketSize := 64
	if js.Settings.ImageSettings.BucketSize != nil {
		bucketSize = *js.Settings.ImageSettings.BucketSize
	}

	settings := scene.Settings{
		Width:      js.Settings.ImageSettings.Width,
		Height:     js.Settings.ImageSettings.Height,
		Background: vec3ToColor(js.Settings.BackgroundColor),
		BucketSize: bucketSize,
	}

	cam := scene.Camera{
		Position:    arrayToVec3(js.Camera.Position),
		Orientation: arrayToMat3(js.Camera.Matrix),
	}

	lights := make([]scene.Light, len(js.Lights))
	for i, l := range js.Lights {
		lights[i] = scene.Light{
			Position:  arrayToVec3(l.Position),
			Intensity: vec3ToColor(l.Intensity),
		}
	}

	textures := make(map[string]models.Texture, len(js.Textures))
	for i, raw := range js.Textures {
		name, tex, err := parseTexture(raw)
		if err != nil {
			return nil, &ParseError{Field: fmt.Sprintf("textures[%d]", i), Err: err}
		}
		textures[name] = tex
	}

	materials := make([]models.Material, len(js.Materials))
	for i, raw := range js.Materials {
		mat, err := parseMaterial(raw)
		if err != nil {
			return nil, &ParseError{Field: fmt.Sprintf("materials[%d]", i), Err: err}
		}
		materials[i] = mat
	}

	var meshes []*models.Mesh
	for i, obj := range js.Objects {
		if obj.GLTFFile != "" {
			loaded, err := LoadGLTFMeshes(obj.GLTFFile, obj.MaterialIndex, len(meshes))
			if err != nil {
				return nil, &ParseError{Field: fmt.Sprintf("objects[%d]", i), Err: err}
			}
			meshes = append(meshes, loaded...)
			continue
		}

		mesh, err := parseMesh(obj, len(meshes))
		if err != nil {
			return nil, &ParseError{Field: fmt.Sprintf("objects[%d]", i), Err: err}
		}
		meshes = append(meshes, mesh)
	}

	return &scene.Scene{
		Settings:  settings,
		Camera:    cam,
		Lights:    lights,
		Textures:  textures,
		Materials: materials,
		Meshes:    meshes,
	}, nil
}

func arrayToVec3(a [3]float64) math3d.Vec3 { return math3d.V3(a[0], a[1], a[2]) }
func vec3ToColor(a [3]float64) color.Color { return color.New(a[0], a[1], a[2]) }

func arrayToMat3(a [9]float64) math3d.Mat3 {
	return math3d.NewMat3(a[0], a[1], a[2], a[3], a[4], a[5], a[6], a[7], a[8])
}

type taggedType struct {
	Type string `json:"type"`
}

func parseTexture(raw json.RawMessage) (string, models.Texture, error) {
	var named struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &named); err != nil {
		return "", models.Texture{}, err
	}

	switch named.Type {
	case "albedo":
		var body struct {
			Albedo [3]float64 `json:"albedo"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return "", models.Texture{}, err
		}
		return named.Name, models.Texture{Kind: models.TextureAlbedo, Albedo: vec3ToColor(body.Albedo)}, nil

	case "edges":
		var body struct {
			EdgeColor  [3]float64 `json:"edge_color"`
			InnerColor [3]float64 `json:"inner_color"`
			EdgeWidth  float64    `json:"edge_width"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return "", models.Texture{}, err
		}
		return named.Name, models.Texture{
			Kind:       models.TextureEdge,
			EdgeColor:  vec3ToColor(body.EdgeColor),
			InnerColor: vec3ToColor(body.InnerColor),
			EdgeWidth:  body.EdgeWidth,
		}, nil

	case "checker":
		var body struct {
			ColorA     [3]float64 `json:"color_A"`
			ColorB     [3]float64 `json:"color_B"`
			SquareSize float64    `json:"square_size"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return "", models.Texture{}, err
		}
		return named.Name, models.Texture{
			Kind:       models.TextureChecker,
			ColorA:     vec3ToColor(body.ColorA),
			ColorB:     vec3ToColor(body.ColorB),
			SquareSize: body.SquareSize,
		}, nil

	case "bitmap":
		var body struct {
			FilePath string `json:"file_path"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return "", models.Texture{}, err
		}
		bmp, err := LoadBitmap(body.FilePath)
		if err != nil {
			return "", models.Texture{}, err
		}
		return named.Name, models.Texture{Kind: models.TextureBitmap, Image: bmp}, nil

	default:
		return "", models.Texture{}, fmt.Errorf("unknown texture type %q", named.Type)
	}
}

func parseMaterial(raw json.RawMessage) (models.Material, error) {
	var tt taggedType
	if err := json.Unmarshal(raw, &tt); err != nil {
		return models.Material{}, err
	}

	switch tt.Type {
	case "diffuse":
		var body struct {
			Albedo        json.RawMessage `json:"albedo"`
			SmoothShading bool            `json:"smooth_shading"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return models.Material{}, err
		}

		var asArray [3]float64
		if err := json.Unmarshal(body.Albedo, &asArray); err == nil {
			return models.Material{
				Kind:          models.MaterialDiffuse,
				Albedo:        vec3ToColor(asArray),
				SmoothShading: body.SmoothShading,
			}, nil
		}

		var asName string
		if err := json.Unmarshal(body.Albedo, &asName); err == nil {
			return models.Material{
				Kind:          models.MaterialTextured,
				TextureName:   asName,
				SmoothShading: body.SmoothShading,
			}, nil
		}

		return models.Material{}, fmt.Errorf("diffuse material's albedo is neither an array nor a string")

	case "reflective":
		var body struct {
			Albedo        [3]float64 `json:"albedo"`
			SmoothShading bool       `json:"smooth_shading"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return models.Material{}, err
		}
		return models.Material{Kind: models.MaterialReflective, Albedo: vec3ToColor(body.Albedo), SmoothShading: body.SmoothShading}, nil

	case "refractive":
		var body struct {
			IOR           float64 `json:"ior"`
			SmoothShading bool    `json:"smooth_shading"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return models.Material{}, err
		}
		return models.Material{Kind: models.MaterialRefractive, IOR: body.IOR, SmoothShading: body.SmoothShading}, nil

	case "constant":
		var body struct {
			Albedo        [3]float64 `json:"albedo"`
			SmoothShading bool       `json:"smooth_shading"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return models.Material{}, err
		}
		return models.Material{Kind: models.MaterialConstant, Albedo: vec3ToColor(body.Albedo), SmoothShading: body.SmoothShading}, nil

	default:
		return models.Material{}, fmt.Errorf("unknown material type %q", tt.Type)
	}
}

// parseMesh builds a models.Mesh from the flat vertex/uv/triangle-index
// buffers. A vertex or triangle-index buffer whose length is not a
// multiple of 3 is a parse error naming the field. The uvs buffer is
// deliberately lax: it is grouped into triples of 3 floats and only
// the first two of each triple become a UV pair, so a uvs array need
// not have the same length as the vertex buffer to be accepted.
func parseMesh(obj jsonObject, meshIndex int) (*models.Mesh, error) {
	if len(obj.Vertices)%3 != 0 {
		return nil, fmt.Errorf("vertex buffer length %d is not a multiple of 3", len(obj.Vertices))
	}
	vertices := make([]math3d.Vec3, len(obj.Vertices)/3)
	for i := range vertices {
		vertices[i] = math3d.V3(obj.Vertices[i*3], obj.Vertices[i*3+1], obj.Vertices[i*3+2])
	}

	if len(obj.UVs)%3 != 0 {
		return nil, fmt.Errorf("uv buffer length %d is not a multiple of 3", len(obj.UVs))
	}
	uvs := make([]math3d.Vec2, len(obj.UVs)/3)
	for i := range uvs {
		uvs[i] = math3d.V2(obj.UVs[i*3], obj.UVs[i*3+1])
	}

	if len(obj.Triangles)%3 != 0 {
		return nil, fmt.Errorf("triangle index buffer length %d is not a multiple of 3", len(obj.Triangles))
	}
	triangles := make([][3]int, len(obj.Triangles)/3)
	for i := range triangles {
		triangles[i] = [3]int{obj.Triangles[i*3], obj.Triangles[i*3+1], obj.Triangles[i*3+2]}
	}

	return models.NewMesh(meshIndex, obj.MaterialIndex, vertices, uvs, triangles), nil
}
