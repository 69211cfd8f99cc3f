// Package all registers every prop source via side effects.
// Import it blank wherever the chain is built from config.
package all

import (
	_ "github.com/hotshotprops/proplab/internal/sources/fanduel"
	_ "github.com/hotshotprops/proplab/internal/sources/oddsapi"
	_ "github.com/hotshotprops/proplab/internal/sources/prizepicks"
)
