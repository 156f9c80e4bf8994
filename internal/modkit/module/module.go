// Package module holds helpers for pulling ports out of modules
package module

import "github.com/mr-bo-jangles/SqueezySceney/internal/modkit"

// Module re-exports the modkit contract
type Module = modkit.Module
