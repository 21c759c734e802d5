package editor

import (
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// NameGenerator hands out unique display names for objects created at runtime.
type NameGenerator map[string]struct{}

// Reserve marks name as taken.
func (ng *NameGenerator) Reserve(name string) {
	if *ng == nil {
		*ng = make(map[string]struct{})
	}
	(*ng)[name] = struct{}{}
}

// Name returns "<prefix> <silly name>", never repeating a previous result.
func (ng *NameGenerator) Name(prefix string) string {
	if *ng == nil {
		*ng = make(map[string]struct{})
		randomdata.CustomRand(rand.New(rand.NewSource(0)))
	}
	for {
		name := randomdata.SillyName()
		if prefix != "" {
			name = prefix + " " + name
		}
		// avoid duplicate names
		if _, exists := (*ng)[name]; !exists {
			(*ng)[name] = struct{}{}
			return name
		}
	}
}
