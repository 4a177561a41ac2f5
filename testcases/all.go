package testcases

// All contains all scenes, grouped by category.
// The category name is used as a prefix in output filenames.
var All = map[string][]Scene{
	"shape":     shapeScenes,
	"feather":   featherScenes,
	"stroke":    strokeScenes,
	"transform": transformScenes,
	"motion":    motionScenes,
	"operator":  operatorScenes,
	"layer":     layerScenes,
}
