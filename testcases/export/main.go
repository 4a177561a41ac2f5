// Command export writes the test scenes, as saved context records, to
// JSON. The output can be loaded with roto.LoadContext or passed to
// rotorender. Run from the module root directory.
package main

import (
	"encoding/json"
	"maps"
	"os"
	"slices"

	"seehuhn.de/go/roto"
	"seehuhn.de/go/roto/testcases"
)

type jsonScene struct {
	Name    string             `json:"name"`
	Width   int                `json:"width"`
	Height  int                `json:"height"`
	Time    float64            `json:"time"`
	Context roto.ContextRecord `json:"context"`
}

func main() {
	var out struct {
		Scenes []jsonScene `json:"scenes"`
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, sc := range testcases.All[category] {
			c, err := sc.NewContext()
			if err != nil {
				panic(err)
			}
			out.Scenes = append(out.Scenes, jsonScene{
				Name:    category + "_" + sc.Name,
				Width:   sc.Width,
				Height:  sc.Height,
				Time:    sc.Time,
				Context: c.Save(),
			})
		}
	}

	if err := os.MkdirAll("testdata", 0755); err != nil {
		panic(err)
	}
	f, err := os.Create("testdata/scenes.json")
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}
