package reflectpause

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text. Score cache
// keys and decision log entries carry this hash, never the text itself.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// ScoreKey builds a score-cache key from a text hash and the engine
// that produced (or would produce) the score.
func ScoreKey(hash string, engine EngineKind) string {
	return hash + ":" + string(engine)
}
