// Package models registriert alle Modell-Familien.
// Import mit _ um die Provider und Arch-Namen verfuegbar zu machen.
package models

import (
	_ "github.com/Retro788/Euclidian-VisionModel/model/models/miniretroov"
)
