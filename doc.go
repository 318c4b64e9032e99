// Package reflectpause decides whether a piece of user-authored text
// should be interrupted with a reflective prompt before it is sent, and
// in which language that prompt should be shown.
//
// Reflectpause scores text with pluggable toxicity engines (an
// on-device heuristic classifier and remote scoring services) with
// cooldown-based failover between them, and resolves arbitrary locale
// strings or raw text to one of a fixed set of supported languages.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/reflectpause"
//	    "github.com/ZaguanLabs/reflectpause/engine"
//	)
//
//	func main() {
//	    p, err := reflectpause.NewPauser(reflectpause.EngineConfig{
//	        Primary:  reflectpause.EngineHeuristic,
//	        Fallback: reflectpause.EnginePerspective,
//	    },
//	        reflectpause.WithEngine(engine.NewHeuristicEngine()),
//	        reflectpause.WithEngine(engine.NewPerspectiveEngine(engine.PerspectiveConfig{
//	            APIKey: os.Getenv("PERSPECTIVE_API_KEY"),
//	        })),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    needsPause, _ := p.Check(context.Background(), "you are the worst")
//	    if needsPause {
//	        prompt, _ := p.GeneratePromptAutoDetect("you are the worst", "")
//	        fmt.Println(prompt.Title, prompt.Question)
//	    }
//	}
package reflectpause
