// Package engine provides the toxicity scoring backends: an on-device
// heuristic classifier and remote scoring services.
package engine

import "github.com/ZaguanLabs/reflectpause"

// ToxicityEngine is the interface every scoring backend implements.
// This is an alias to the main package interface for convenience.
type ToxicityEngine = reflectpause.ToxicityEngine

// EngineError is an alias to the main package error type.
type EngineError = reflectpause.EngineError
