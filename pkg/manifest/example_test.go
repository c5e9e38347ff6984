package manifest_test

import (
	"fmt"

	"github.com/stagehand-dev/stagehand/pkg/manifest"
)

func ExampleManifest_AddTransform() {
	// A transform chain: compile a stylesheet, then minify it.
	m := manifest.New(nil, "en", nil, manifest.Config{
		SourceRoot:  "/proj/src",
		BuildRoot:   "/proj/build",
		StagingRoot: "/proj/tmp",
		URLRoot:     "/static",
	})

	scss := m.AddEntry("theme/main.scss", manifest.EntryOptions{})
	css := m.AddTransform(scss, manifest.EntryOptions{Ext: "css"})
	minified := m.AddTransform(css, manifest.EntryOptions{})

	fmt.Println("terminal:", minified.Filename)
	fmt.Println("visible entries:", len(m.Entries(false)))
	fmt.Println("all entries:", len(m.Entries(true)))
	// Output:
	// terminal: theme/main.css
	// visible entries: 1
	// all entries: 3
}

func ExampleManifest_AddComposite() {
	m := manifest.New(nil, "en", nil, manifest.Config{
		SourceRoot:  "/proj/src",
		BuildRoot:   "/proj/build",
		StagingRoot: "/proj/tmp",
		URLRoot:     "/static",
	})

	a := m.AddEntry("source/a.js", manifest.EntryOptions{})
	b := m.AddEntry("source/b.js", manifest.EntryOptions{})
	combined := m.AddComposite("javascript.js", manifest.EntryOptions{
		SourceEntries: []*manifest.Entry{a, b},
	})

	fmt.Println("composite:", combined.Filename)
	fmt.Println("a hidden:", a.Hidden)
	fmt.Println("b hidden:", b.Hidden)
	// Output:
	// composite: javascript.js
	// a hidden: true
	// b hidden: true
}

func ExampleManifest_FindEntry() {
	m := manifest.New(nil, "en", nil, manifest.Config{
		SourceRoot:  "/proj/src",
		BuildRoot:   "/proj/build",
		StagingRoot: "/proj/tmp",
		URLRoot:     "/static",
	})

	m.AddEntry("icons/button.png", manifest.EntryOptions{})
	m.AddEntry("icons/button-active.png", manifest.EntryOptions{})

	// Extension-less fragments match on the root name.
	e, _ := m.FindEntry("button", manifest.Filter{})
	fmt.Println(e.Filename)
	// Output:
	// icons/button.png
}
