package audio

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"time"
)

// GenerateInternalFilename produces a collision-resistant storage name of the
// form <unix-seconds>_<8-hex-token><.ext>. The extension is copied verbatim
// from the original name's final suffix; absent an extension, none is
// appended. The random token keeps two calls within the same second distinct.
func GenerateInternalFilename(originalName string) string {
	timestamp := time.Now().Unix()
	token := fmt.Sprintf("%08x", rand.Uint32())
	ext := filepath.Ext(originalName)
	return fmt.Sprintf("%d_%s%s", timestamp, token, ext)
}
