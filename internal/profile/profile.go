package profile

import (
	"fmt"
	"sort"

	"github.com/AnyUserName/hippo-cli/internal/raster"
)

// Profile is a named set of conversion parameters.
type Profile struct {
	Name    string
	Quality raster.Quality // encoding quality 1-100
}

// Default is the profile used when none is requested.
const Default = "default"

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:    "default",
		Quality: raster.DefaultQuality,
	},
	"web": {
		Name:    "web",
		Quality: 82,
	},
	"archive": {
		Name:    "archive",
		Quality: 95,
	},
	"draft": {
		Name:    "draft",
		Quality: 40,
	},
}

// Get returns a profile by name.
func Get(name string) (Profile, error) {
	if name == "" {
		name = Default
	}
	if p, ok := profiles[name]; ok {
		return p, nil
	}
	return Profile{}, fmt.Errorf("unknown profile %q (available: %v)", name, Names())
}

// Names returns the built-in profile names in sorted order.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// WithQuality returns p with its quality replaced when q is non-zero.
// A zero q means the flag was not given.
func (p Profile) WithQuality(q raster.Quality) Profile {
	if q != 0 {
		p.Quality = q
	}
	return p
}
