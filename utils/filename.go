package utils

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewArtifactName returns a fresh stored-image filename: 32 hex characters of
// random identity plus the fixed .jpg extension. The pipeline always encodes
// JPEG, so the extension never depends on what the client uploaded.
func NewArtifactName() string {
	u := uuid.New()
	return hex.EncodeToString(u[:]) + ".jpg"
}
