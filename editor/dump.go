package editor

import (
	"github.com/davecgh/go-spew/spew"
)

var spewConfig *spew.ConfigState

func init() {
	spewConfig = spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
	spewConfig.DisablePointerAddresses = true
	spewConfig.DisableMethods = true
	spewConfig.MaxDepth = 2
}

// Dump renders a debug view of any value, typically a scene node.
func Dump(a ...interface{}) string {
	return spewConfig.Sdump(a...)
}
